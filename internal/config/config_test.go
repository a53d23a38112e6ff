package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "fb", Password: "pw", DBName: "foodbank", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=fb password=pw dbname=foodbank sslmode=disable", d.DSN())

	d.URL = "postgres://fb:pw@db/foodbank"
	assert.Equal(t, "postgres://fb:pw@db/foodbank", d.DSN())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INVENTORY_ACTIVITY_LIMIT", "20")

	cfg := Load()

	assert.Equal(t, 900000.0, cfg.Inventory.TargetCapacity)
	assert.Equal(t, 2.0, cfg.Inventory.Tolerance)
	assert.Equal(t, 20, cfg.Inventory.ActivityLimit)
	assert.Equal(t, time.Minute, cfg.Cache.DashboardTTL())
	assert.Same(t, cfg, Load())
}
