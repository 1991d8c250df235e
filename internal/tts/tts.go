// Package tts renders text to audio buffers in the engine's native format.
package tts

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ca4ti/FrugalVox/internal/audio"
)

// Renderer converts text to a buffer of native-format samples.
type Renderer interface {
	Render(text string) ([]byte, error)
}

// CommandRenderer shells out to an external speech synthesizer that
// writes a WAV file, then loads the result. The command template takes
// two %s verbs: the output path and the text.
type CommandRenderer struct {
	cmdTemplate string
}

// NewCommandRenderer creates a renderer from a command template, e.g.
// `espeak -w %s "%s"`.
func NewCommandRenderer(cmdTemplate string) *CommandRenderer {
	return &CommandRenderer{cmdTemplate: cmdTemplate}
}

// Render synthesizes text through the external command.
func (r *CommandRenderer) Render(text string) ([]byte, error) {
	if r.cmdTemplate == "" {
		return nil, fmt.Errorf("no TTS command configured")
	}

	tmp, err := os.CreateTemp("", "fvx-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	cmdline := fmt.Sprintf(r.cmdTemplate, path, text)
	cmd := exec.Command("sh", "-c", cmdline)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("tts command failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	buf, err := audio.LoadWAV(path)
	if err != nil {
		return nil, fmt.Errorf("load rendered audio: %w", err)
	}
	return buf, nil
}

// Available checks that the synthesizer binary can be found, for use in
// readiness probes.
func (r *CommandRenderer) Available() error {
	if r.cmdTemplate == "" {
		return fmt.Errorf("no TTS command configured")
	}
	fields := strings.Fields(r.cmdTemplate)
	if len(fields) == 0 {
		return fmt.Errorf("empty TTS command")
	}
	if _, err := exec.LookPath(fields[0]); err != nil {
		return fmt.Errorf("tts binary %q not found: %w", fields[0], err)
	}
	return nil
}
