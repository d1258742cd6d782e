//go:build windows

package desktop

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows"

	"github.com/jmylchreest/wallcycle/internal/proc"
)

const (
	spiSetDeskWallpaper  = 0x0014
	spifUpdateIniFile    = 0x01
	spifSendWinIniChange = 0x02
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfo = user32.NewProc("SystemParametersInfoW")
)

// winApplier sets the wallpaper through SystemParametersInfoW.
type winApplier struct {
	logger hclog.Logger
}

// New creates the Windows desktop applier. The process runner is unused on
// this platform; the signature is shared with the exec-based appliers.
func New(_ proc.Runner, logger hclog.Logger) Applier {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &winApplier{logger: logger}
}

func (a *winApplier) Apply(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("failed to encode wallpaper path: %w", err)
	}

	a.logger.Debug("setting desktop wallpaper", "path", path)
	ret, _, callErr := procSystemParametersInfo.Call(
		uintptr(spiSetDeskWallpaper),
		0,
		uintptr(unsafe.Pointer(ptr)),
		uintptr(spifUpdateIniFile|spifSendWinIniChange),
	)
	if ret == 0 {
		if callErr != nil {
			return fmt.Errorf("SystemParametersInfoW failed: %w", callErr)
		}
		return fmt.Errorf("SystemParametersInfoW failed for %s", path)
	}

	return nil
}
