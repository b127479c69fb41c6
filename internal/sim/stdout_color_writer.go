package sim

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"swarmsim/internal/telemetry"
	"swarmsim/internal/turret"
)

var (
	styleHeader    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleMoving    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleAttacking = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleAvoiding  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	styleLowFuel   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleDestroyed = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleEvent     = lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true)
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case telemetry.StatusMoving:
		return styleMoving
	case telemetry.StatusAttacking:
		return styleAttacking
	case telemetry.StatusAvoiding:
		return styleAvoiding
	case telemetry.StatusLowFuel, telemetry.StatusNoFuel:
		return styleLowFuel
	case telemetry.StatusDestroyed:
		return styleDestroyed
	default:
		return styleDim
	}
}

// ColorStdoutWriter renders a styled per-tick table of the swarm plus
// highlighted engagement and swarm event lines. Meant for humans watching
// a run in a terminal.
type ColorStdoutWriter struct {
	out io.Writer
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter() *ColorStdoutWriter {
	return &ColorStdoutWriter{out: os.Stdout}
}

// Write renders a single telemetry row.
func (w *ColorStdoutWriter) Write(row telemetry.TelemetryRow) error {
	return w.WriteBatch([]telemetry.TelemetryRow{row})
}

// WriteBatch renders one tick's drones as an aligned table.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	if len(rows) == 0 {
		return nil
	}
	fmt.Fprintln(w.out, styleHeader.Render(fmt.Sprintf("tick %d", rows[0].Tick)))
	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, styleDim.Render("ID\tPOS\tVEL\tFUEL\tTARGET\tSTATUS"))
	for _, r := range rows {
		target := "-"
		if r.TargetID != telemetry.NoTarget {
			target = fmt.Sprintf("T%d", r.TargetID)
		}
		fmt.Fprintf(tw, "%d\t%.1f,%.1f\t%.2f,%.2f\t%.0f\t%s\t%s\n",
			r.DroneID, r.X, r.Y, r.VX, r.VY, r.Fuel, target,
			statusStyle(r.Status).Render(r.Status))
	}
	return tw.Flush()
}

// WriteEngagement renders a turret engagement line.
func (w *ColorStdoutWriter) WriteEngagement(row turret.EngagementRow) error {
	outcome := styleDim.Render("miss")
	if row.Killed {
		outcome = styleDestroyed.Render("KILL")
	}
	fmt.Fprintf(w.out, "%s turret %d -> drone %d at %.1f,%.1f [%s]\n",
		styleEvent.Render("engagement"), row.TurretID, row.DroneID, row.X, row.Y, outcome)
	return nil
}

// WriteSwarmEvent renders a swarm event line.
func (w *ColorStdoutWriter) WriteSwarmEvent(e telemetry.SwarmEventRow) error {
	switch e.EventType {
	case telemetry.SwarmEventTargetDestroyed:
		fmt.Fprintf(w.out, "%s target %d destroyed at tick %d\n",
			styleEvent.Render("swarm"), e.TargetID, e.Tick)
	case telemetry.SwarmEventDroneLost:
		fmt.Fprintf(w.out, "%s drones lost %v at tick %d\n",
			styleEvent.Render("swarm"), e.DroneIDs, e.Tick)
	case telemetry.SwarmEventReassignment:
		fmt.Fprintf(w.out, "%s reassigned %v at tick %d\n",
			styleEvent.Render("swarm"), e.DroneIDs, e.Tick)
	default:
		fmt.Fprintf(w.out, "%s %s at tick %d\n",
			styleEvent.Render("swarm"), e.EventType, e.Tick)
	}
	return nil
}

// WriteState renders a one-line run summary.
func (w *ColorStdoutWriter) WriteState(row telemetry.SimulationStateRow) error {
	line := fmt.Sprintf("state=%s drones=%d/%d targets=%d/%d steps/s=%.0f",
		row.State, row.DronesAlive, row.DronesTotal,
		row.TargetsAlive, row.TargetsTotal, row.StepsPerSec)
	fmt.Fprintln(w.out, styleDim.Render(line))
	return nil
}
