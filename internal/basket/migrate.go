package basket

import (
	"context"
	"fmt"

	"github.com/morislaflame/clo-client/internal/domain"
)

// MigrateLocalToServer moves the local basket into the server one right after
// login. The backend add endpoint increments quantity by one per call, so a
// line of quantity N becomes N sequential add calls. Failed units are
// recorded per line, never rolled back. Whatever the outcome, the local
// envelope is cleared and the basket reloaded from the server, so state ends
// authoritative-server-only, never a hybrid.
func (e *Engine) MigrateLocalToServer(ctx context.Context) (domain.MigrationReport, error) {
	var report domain.MigrationReport

	lines, err := e.store.Load(ctx)
	if err != nil {
		return report, e.fail(fmt.Errorf("load local basket: %w", err))
	}

	for _, line := range lines {
		lm := domain.LineMigration{
			Key:            line.Key(),
			UnitsRequested: line.Quantity,
		}
		for unit := 0; unit < line.Quantity; unit++ {
			_, _, addErr := e.api.Add(ctx, line.ProductID, line.SelectedColorID, line.SelectedSizeID)
			if addErr != nil {
				e.log.Warn("failed to migrate basket item",
					"productId", line.ProductID,
					"unit", unit+1,
					"of", line.Quantity,
					"error", addErr)
				lm.Err = addErr
				continue
			}
			lm.UnitsMigrated++
		}
		report.Lines = append(report.Lines, lm)
	}

	// Clear unconditionally, even after partial failure: the report above is
	// the only record of lost units.
	if err := e.store.Clear(ctx); err != nil {
		e.log.Warn("failed to clear local basket after migration", "error", err)
	}

	if err := e.Load(ctx); err != nil {
		return report, err
	}
	if !report.Complete() {
		e.log.Warn("basket migration incomplete", "unitsLost", report.UnitsLost())
	}
	return report, nil
}
