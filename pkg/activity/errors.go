package activity

import (
	"fmt"
	"time"

	"github.com/eurora-ai/eurora-core/pkg/eurora"
)

func assetIndexError(i, n int) error {
	return eurora.WithKind(eurora.KindNotFound, fmt.Errorf("asset index %d out of range [0,%d)", i, n))
}

func endedBeforeStartedError(started, ended time.Time) error {
	return eurora.WithKind(eurora.KindConfiguration, fmt.Errorf("ended_at %s is before started_at %s", ended, started))
}
