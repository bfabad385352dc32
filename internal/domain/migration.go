package domain

// LineMigration accounts for one local line during migration to the server
// basket. Units are migrated one add call at a time, so a line can end up
// partially transferred.
type LineMigration struct {
	Key            LineKey
	UnitsRequested int
	UnitsMigrated  int
	Err            error
}

// MigrationReport is returned by the basket engine after migrating a local
// basket into the server one. The local envelope is cleared regardless of the
// outcome, so failed units listed here are the only record of what was lost.
type MigrationReport struct {
	Lines []LineMigration
}

// Complete reports whether every unit of every line made it to the server.
func (r MigrationReport) Complete() bool {
	for _, l := range r.Lines {
		if l.UnitsMigrated != l.UnitsRequested {
			return false
		}
	}
	return true
}

// UnitsLost counts units that failed to migrate.
func (r MigrationReport) UnitsLost() int {
	lost := 0
	for _, l := range r.Lines {
		lost += l.UnitsRequested - l.UnitsMigrated
	}
	return lost
}
