//go:build windows

package lockscreen

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows/registry"

	"github.com/jmylchreest/wallcycle/internal/proc"
)

// setImageScript bridges to the WinRT LockScreen API. SetImageFileAsync is
// genuinely asynchronous; the AsTask reflection shim lets the script await
// it so the process exit reflects the final outcome.
const setImageScript = `
$ErrorActionPreference = 'Stop'
[Windows.System.UserProfile.LockScreen, Windows.System.UserProfile, ContentType = WindowsRuntime] | Out-Null
[Windows.Storage.StorageFile, Windows.Storage, ContentType = WindowsRuntime] | Out-Null
Add-Type -AssemblyName System.Runtime.WindowsRuntime
$asTaskGeneric = ([System.WindowsRuntimeSystemExtensions].GetMethods() | Where-Object {
    $_.Name -eq 'AsTask' -and $_.GetParameters().Count -eq 1 -and
    $_.GetParameters()[0].ParameterType.Name -eq 'IAsyncOperation` + "`" + `1'
})[0]
$getFile = $asTaskGeneric.MakeGenericMethod([Windows.Storage.StorageFile]).Invoke($null, @(
    [Windows.Storage.StorageFile]::GetFileFromPathAsync('__IMAGE_PATH__')))
$getFile.Wait()
$setImage = [System.WindowsRuntimeSystemExtensions]::AsTask(
    [Windows.System.UserProfile.LockScreen]::SetImageFileAsync($getFile.Result))
$setImage.Wait()
Write-Output 'lock screen image applied'
`

const spotlightKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\ContentDeliveryManager`

// winSynchronizer drives the WinRT lock-screen API through powershell.
type winSynchronizer struct {
	runner proc.Runner
	logger hclog.Logger
}

// New creates the Windows lock-screen synchronizer.
func New(runner proc.Runner, logger hclog.Logger) Synchronizer {
	if runner == nil {
		runner = proc.NewExecRunner()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &winSynchronizer{runner: runner, logger: logger}
}

func (s *winSynchronizer) Sync(ctx context.Context, path string) error {
	if spotlightActive() {
		return ErrManagedProvider
	}

	s.logger.Debug("applying lock screen image", "path", path)
	// Single quotes in the path are doubled for PowerShell's quoting rules.
	script := strings.ReplaceAll(setImageScript, "__IMAGE_PATH__",
		strings.ReplaceAll(path, "'", "''"))
	args := []string{"-NoProfile", "-NonInteractive", "-Command", script}
	result, err := s.runner.Run(ctx, "powershell.exe", args, func(line string) {
		s.logger.Debug("lockscreen", "output", line)
	})
	if err != nil {
		return fmt.Errorf("lock screen bridge failed: %w", err)
	}
	if result.ExitCode != 0 {
		detail := strings.Join(result.Output, "; ")
		if strings.Contains(strings.ToLower(detail), "denied") {
			return fmt.Errorf("%w: %s", ErrManagedProvider, detail)
		}
		return fmt.Errorf("lock screen bridge exited with code %d: %s", result.ExitCode, detail)
	}

	return nil
}

// spotlightActive reports whether Windows Spotlight owns the lock screen.
// The WinRT call is refused while the rotating provider is enabled.
func spotlightActive() bool {
	key, err := registry.OpenKey(registry.CURRENT_USER, spotlightKey, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()

	value, _, err := key.GetIntegerValue("RotatingLockScreenEnabled")
	if err != nil {
		return false
	}
	return value == 1
}
