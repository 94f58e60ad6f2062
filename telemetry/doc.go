// Package telemetry records how sessions evolve, one CSV row per session per
// in-world year, and summarizes a run (mean, deviation and range of
// finances, reputation, supply and demand).
package telemetry
