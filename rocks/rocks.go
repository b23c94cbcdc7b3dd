package rocks

import (
	"context"

	"go.uber.org/zap"

	luabridge "github.com/wippyai/lua-bridge"
	"github.com/wippyai/lua-bridge/errors"
)

// Bridge is the slice of a runtime the orchestrator needs. Satisfied by
// *runtime.Runtime.
type Bridge interface {
	luabridge.Evaluator
	luabridge.Invoker
}

// Options controls one installation.
type Options struct {
	// ExtraSources are appended to the runtime's active source list for
	// the duration of the install and removed again afterwards.
	ExtraSources []string

	// InstallDir is the target directory. Empty resolves to the
	// runtime's first writable package path.
	InstallDir string

	// Force reinstalls even when name@version is already present.
	Force bool

	// IgnoreDependencies skips packages declared via "-- requires:".
	IgnoreDependencies bool
}

// Install installs name at version into the runtime behind b. The
// orchestrator holds no state of its own: every step is a call through
// the bridge into the bootstrap helper.
//
// Unless Force is set, an already-installed package is a logged no-op.
// The runtime's package-source list is snapshotted before any mutation
// and restored with replace semantics on every exit path, so a failed
// install never leaves the source list polluted.
func Install(ctx context.Context, b Bridge, name, version string, opts Options) (err error) {
	if name == "" {
		return errors.InvalidInput(errors.PhaseInstall, "package name required")
	}

	helper := b.Global("rocks")
	if helper == nil {
		return errors.New(errors.PhaseInstall, errors.KindBootstrap).
			Detail("bootstrap helper not loaded").
			Build()
	}

	if !opts.Force {
		installed, qerr := b.Invoke(ctx, helper, "is_installed", name, version)
		if qerr != nil {
			return errors.Wrap(errors.PhaseInstall, errors.KindLuaError, qerr, "query installed packages")
		}
		if ok, _ := installed.(bool); ok {
			Logger().Info("package already installed, skipping",
				zap.String("name", name), zap.String("version", version))
			return nil
		}
	}

	snapshot, err := b.Invoke(ctx, helper, "sources")
	if err != nil {
		return errors.Wrap(errors.PhaseInstall, errors.KindLuaError, err, "snapshot source list")
	}

	// Restore the captured source list on every path from here on,
	// replacing whatever the install left behind.
	defer func() {
		if _, rerr := b.Invoke(ctx, helper, "add_sources", snapshot, true); rerr != nil {
			rerr = errors.Wrap(errors.PhaseInstall, errors.KindLuaError, rerr, "restore source list")
			if err == nil {
				err = rerr
			} else {
				Logger().Error("source list restoration failed", zap.Error(rerr))
			}
		}
	}()

	dir := opts.InstallDir
	if dir == "" {
		resolved, derr := b.Invoke(ctx, helper, "first_writable_path")
		if derr != nil {
			return errors.Wrap(errors.PhaseInstall, errors.KindLuaError, derr, "resolve install directory")
		}
		dir, _ = resolved.(string)
	}

	installer, err := b.Invoke(ctx, helper, "installer", map[any]any{
		"dir":         dir,
		"force":       opts.Force,
		"ignore_deps": opts.IgnoreDependencies,
	})
	if err != nil {
		return errors.Wrap(errors.PhaseInstall, errors.KindLuaError, err, "build installer")
	}

	if len(opts.ExtraSources) > 0 {
		if _, err = b.Invoke(ctx, helper, "add_sources", opts.ExtraSources, false); err != nil {
			return errors.Wrap(errors.PhaseInstall, errors.KindLuaError, err, "add extra sources")
		}
	}

	if _, err = b.Invoke(ctx, installer, "install", name, version); err != nil {
		return errors.Wrap(errors.PhaseInstall, errors.KindLuaError, err, "install "+name)
	}

	Logger().Info("package installed",
		zap.String("name", name), zap.String("version", version))
	return nil
}
