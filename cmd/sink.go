package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/postoffice-sim/postoffice-sim/sim"
	"github.com/postoffice-sim/postoffice-sim/sim/store"
)

// recordStore is a sink whose rows can be read back.
type recordStore interface {
	sim.ResultSink
	sim.RecordReader
}

// resolveDatabaseURL prefers the flag, then DATABASE_URL from the
// environment or a .env file in the working directory.
func resolveDatabaseURL(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found (using environment variables)")
	}
	return strings.TrimSpace(os.Getenv("DATABASE_URL"))
}

// openSink returns a Postgres sink when url is set, otherwise an in-memory
// one. The returned close function is always safe to call.
func openSink(ctx context.Context, url string) (recordStore, func(), error) {
	if url == "" {
		logrus.Info("No database configured; results are kept in memory")
		return sim.NewMemorySink(), func() {}, nil
	}
	db, err := store.Open(url)
	if err != nil {
		return nil, nil, err
	}
	if err := store.InitSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logrus.Info("Persisting results to postgres")
	return store.NewPostgresSink(db), func() { _ = db.Close() }, nil
}
