package sim

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"swarmsim/internal/telemetry"
	"swarmsim/internal/turret"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

const engagementTableName = "swarm_engagements"

// GreptimeDBWriter writes telemetry and engagements to GreptimeDB via the
// ingester client.
type GreptimeDBWriter struct {
	client greptime.Client
	db     string
	table  string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer and auto-creates the tables if needed.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	// Auto-create table schemas
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  run_id STRING TAG,
  drone_id STRING TAG,
  tick DOUBLE,
  x DOUBLE,
  y DOUBLE,
  vx DOUBLE,
  vy DOUBLE,
  heading DOUBLE,
  fuel DOUBLE,
  status STRING,
  target_id DOUBLE,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`, telemetry.TelemetryTableName)
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}

	ddl = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  run_id STRING TAG,
  turret_id STRING TAG,
  drone_id STRING,
  x DOUBLE,
  y DOUBLE,
  killed STRING,
  tick DOUBLE,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`, engagementTableName)
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client: client,
		db:     database,
		table:  telemetry.TelemetryTableName,
	}, nil
}

// Write inserts a single telemetry row.
func (w *GreptimeDBWriter) Write(row telemetry.TelemetryRow) error {
	return w.WriteBatch([]telemetry.TelemetryRow{row})
}

// WriteBatch inserts multiple telemetry rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.table)
	tbl.AddTagColumn("run_id", types.StringType, 0)
	tbl.AddTagColumn("drone_id", types.StringType, 0)
	tbl.AddFieldColumn("tick", types.Float64Type)
	tbl.AddFieldColumn("x", types.Float64Type)
	tbl.AddFieldColumn("y", types.Float64Type)
	tbl.AddFieldColumn("vx", types.Float64Type)
	tbl.AddFieldColumn("vy", types.Float64Type)
	tbl.AddFieldColumn("heading", types.Float64Type)
	tbl.AddFieldColumn("fuel", types.Float64Type)
	tbl.AddFieldColumn("status", types.StringType)
	tbl.AddFieldColumn("target_id", types.Float64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("run_id", r.RunID)
		tbl.AppendTagValue("drone_id", strconv.Itoa(r.DroneID))
		tbl.AppendFieldValue("tick", float64(r.Tick))
		tbl.AppendFieldValue("x", r.X)
		tbl.AppendFieldValue("y", r.Y)
		tbl.AppendFieldValue("vx", r.VX)
		tbl.AppendFieldValue("vy", r.VY)
		tbl.AppendFieldValue("heading", r.Heading)
		tbl.AppendFieldValue("fuel", r.Fuel)
		tbl.AppendFieldValue("status", r.Status)
		tbl.AppendFieldValue("target_id", float64(r.TargetID))
		tbl.AppendTimeIndex(r.Timestamp)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] Write failed: %v", err)
		return err
	}
	return nil
}

// WriteEngagement inserts a single engagement row.
func (w *GreptimeDBWriter) WriteEngagement(row turret.EngagementRow) error {
	return w.WriteEngagements([]turret.EngagementRow{row})
}

// WriteEngagements inserts multiple engagement rows.
func (w *GreptimeDBWriter) WriteEngagements(rows []turret.EngagementRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(engagementTableName)
	tbl.AddTagColumn("run_id", types.StringType, 0)
	tbl.AddTagColumn("turret_id", types.StringType, 0)
	tbl.AddFieldColumn("drone_id", types.StringType)
	tbl.AddFieldColumn("x", types.Float64Type)
	tbl.AddFieldColumn("y", types.Float64Type)
	tbl.AddFieldColumn("killed", types.StringType)
	tbl.AddFieldColumn("tick", types.Float64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("run_id", r.RunID)
		tbl.AppendTagValue("turret_id", strconv.Itoa(r.TurretID))
		tbl.AppendFieldValue("drone_id", strconv.Itoa(r.DroneID))
		tbl.AppendFieldValue("x", r.X)
		tbl.AppendFieldValue("y", r.Y)
		tbl.AppendFieldValue("killed", strconv.FormatBool(r.Killed))
		tbl.AppendFieldValue("tick", float64(r.Tick))
		tbl.AppendTimeIndex(r.Timestamp)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] Write failed: %v", err)
		return err
	}
	return nil
}
