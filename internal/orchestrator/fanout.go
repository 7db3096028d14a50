package orchestrator

import (
	"context"

	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// isHardFailure reports whether err is a ConfigError (error codes 100-199):
// a misconfigured registry entry the whole fan-out cannot recover from.
// Every other category — data, validation, risk, callback, persistence — is
// a per-run soft failure that should not stop its siblings.
func isHardFailure(err error) bool {
	var structured *errors.Error
	if !errors.As(err, &structured) {
		return false
	}

	return structured.Code >= 100 && structured.Code < 200
}

// RunMany runs every identity through runner concurrently, one goroutine per
// identity (§5's Live/Walker multi-symbol fan-out supervision policy). A hard
// ConfigError failure cancels every other run and is returned; any other
// error is logged and swallowed so the rest of the fan-out keeps going.
func RunMany(ctx context.Context, log *logger.Logger, identities []RunIdentity, runner func(context.Context, RunIdentity) error) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, identity := range identities {
		group.Go(func() error {
			err := runner(groupCtx, identity)
			if err == nil {
				return nil
			}

			if isHardFailure(err) {
				return err
			}

			log.Warn("fan-out run failed, continuing other runs",
				zap.String("symbol", identity.Symbol), zap.String("strategy", identity.StrategyName), zap.Error(err))

			return nil
		})
	}

	return group.Wait()
}
