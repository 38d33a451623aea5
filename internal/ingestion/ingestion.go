package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/domain/models"
	"github.com/guttosm/b3yield/internal/logger"
	"github.com/guttosm/b3yield/internal/storage"
)

const (
	fileDateLayout   = "02-01-2006" // DD-MM-YYYY
	fileSuffix       = "_TAXAS_ANBIMA.txt"
	defaultBatchSize = 500
	// MaxDays bounds how many business days one run may ingest.
	MaxDays = 7
)

// Pricer prices one row of a rate file.
type Pricer interface {
	PriceRecord(ctx context.Context, rec models.RateRecord) (*models.Quotation, error)
}

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.QuotationsRepository {
	return storage.NewQuotationsRepository(db)
}

// now is the clock used to pick the business days to ingest.
var now = time.Now

// FileName is the expected rate-file name for a business day.
func FileName(day time.Time) string {
	return day.Format(fileDateLayout) + fileSuffix
}

// ProcessDirectory ingests the rate files of the last nDays business days.
//
//   - dir:    directory containing .txt input files.
//   - db:     open *sql.DB (PostgreSQL).
//   - pricer: prices each row before it is stored.
//   - cal:    business-day calendar that selects the files.
//
// Behavior:
//   - Expects exactly one file per business day named "DD-MM-YYYY_TAXAS_ANBIMA.txt".
//   - Uses a concurrency limit based on CPU count (min(MaxDays, NumCPU)).
//   - Skips days already in the ingestion log unless force is set; force
//     deletes the day's quotations and reprocesses it.
//   - If any file returns error, cancels the rest and returns that error.
func ProcessDirectory(ctx context.Context, dir string, db *sql.DB, pricer Pricer, cal calendar.Calendar, nDays int, parallel int, force bool) error {
	log := logger.Component("ingestion")
	repo := repoCtor(db)

	if nDays < 1 {
		nDays = 1
	}
	if nDays > MaxDays {
		nDays = MaxDays
	}
	dates, err := calendar.LastNBusinessDays(cal, nDays, now())
	if err != nil {
		return fmt.Errorf("select business days: %w", err)
	}

	var files []string
	var missing []string

	for _, d := range dates {
		name := FileName(d)
		full := filepath.Join(dir, name)
		files = append(files, full)

		if _, err := os.Stat(full); err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, name)
			} else {
				return fmt.Errorf("stat failed for %s: %w", full, err)
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required files: %s", strings.Join(missing, ", "))
	}

	log.Info().Int("files", len(files)).Str("dir", dir).Str("calendar", cal.Name()).Msg("ingestion start")

	maxParallel := MaxDays
	if parallel > 0 {
		if parallel > MaxDays {
			parallel = MaxDays
		}
		maxParallel = parallel
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	log.Info().Int("max_parallel", maxParallel).Msg("ingestion configured")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, file := range files {
		idx := i
		f := file
		d := dates[i]

		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(f)
			log.Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Msg("file start")

			exists, err := repo.HasIngestionForDate(d)
			if err != nil {
				log.Error().Str("file", base).Err(err).Msg("check ingestion log failed")
				return fmt.Errorf("file %s: check ingestion log: %w", f, err)
			}
			if exists && !force {
				log.Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Bool("skipped", true).Msg("already ingested")
				return nil
			}
			if exists && force {
				if err := repo.DeleteQuotationsByDate(d); err != nil {
					log.Error().Str("file", base).Err(err).Msg("delete existing failed")
					return fmt.Errorf("file %s: delete existing: %w", f, err)
				}
			}

			total, err := parseAndPersistFile(gctx, f, d, repo, pricer, defaultBatchSize)
			if err != nil {
				log.Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", f, err)
			}
			if err := repo.UpsertIngestionLog(d, base, total); err != nil {
				log.Error().Str("file", base).Err(err).Msg("update ingestion log failed")
				return fmt.Errorf("file %s: upsert ingestion log: %w", f, err)
			}
			log.Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Int("rows", total).Dur("elapsed", time.Since(start)).Bool("force", force).Msg("file done")
			return nil
		})
	}

	return g.Wait()
}
