// Package mongo provides MongoDB connection management for deployments that
// keep the high-volume usage event ledger in a document store instead of
// (or alongside) PostgreSQL.
//
// Configuration is environment-driven, connections retry through transient
// failures, and the health-check helper integrates with orchestration
// probes.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "metering")
//	if err != nil {
//	    return err
//	}
//
//	ledger := metering.NewMongoEventLedger(db.Collection("usage_events"))
package mongo
