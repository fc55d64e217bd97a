package deps

import (
	"time"

	"github.com/linkstash/linkstash/internal/logger"
	"github.com/linkstash/linkstash/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	Store     *store.Memory // authoritative data store
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}
