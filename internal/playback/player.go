package playback

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pronounce-dev/pronounce-word/internal/fsutil"
	"github.com/pronounce-dev/pronounce-word/internal/progress"
)

// Player invokes the configured OS sound command on a cached file.
//
// The command is a shell template with a {file} placeholder, e.g.
// `afplay "{file}"`. Playback is an opaque side effect: beyond
// "the command was attempted and exited", nothing is consumed.
type Player struct {
	commandTemplate string
	onProgress      progress.Func
}

// NewPlayer creates a Player with the given command template.
func NewPlayer(commandTemplate string, onProgress progress.Func) *Player {
	return &Player{
		commandTemplate: commandTemplate,
		onProgress:      onProgress,
	}
}

// Play runs the sound command on path.
//
// The file must already exist; Play never downloads. The command runs
// through the shell so templates with quoting and flags work as users
// expect.
func (p *Player) Play(ctx context.Context, path string) error {
	if !fsutil.FileExists(path) {
		return fmt.Errorf("file %s does not exist", path)
	}

	cmdline := strings.ReplaceAll(p.commandTemplate, "{file}", path)
	p.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Playing file %s", path))

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", cmdline)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", cmdline)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("playing %s: %w", path, err)
	}
	return nil
}
