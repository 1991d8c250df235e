// Package ivr implements the call session engine: clip preloading, the
// playback pacer, the session registry and the per-call state machine.
package ivr

import (
	"fmt"
	"path/filepath"

	"github.com/ca4ti/FrugalVox/internal/audio"
	"github.com/ca4ti/FrugalVox/internal/config"
	"github.com/ca4ti/FrugalVox/internal/dtmf"
	"github.com/ca4ti/FrugalVox/internal/tts"
)

// ClipTable maps clip names to pre-rendered native-format buffers. It is
// built once at startup and never mutated afterwards, so all sessions may
// read it concurrently.
type ClipTable map[string][]byte

// BuildClipTable preloads static audio files, renders the configured TTS
// phrases and generates per-symbol DTMF tone clips (keyed "dtmf.<sym>").
func BuildClipTable(cfg *config.Config, renderer tts.Renderer) (ClipTable, error) {
	clips := make(ClipTable)

	for name, file := range cfg.Clips.Files {
		buf, err := audio.LoadWAV(filepath.Join(cfg.Clips.Dir, file))
		if err != nil {
			return nil, fmt.Errorf("load clip %q: %w", name, err)
		}
		clips[name] = buf
	}

	for name, phrase := range cfg.TTS.Phrases {
		buf, err := renderer.Render(phrase)
		if err != nil {
			return nil, fmt.Errorf("render phrase %q: %w", name, err)
		}
		clips[name] = buf
	}

	for sym, buf := range dtmf.GenClips() {
		clips["dtmf."+string(sym)] = buf
	}

	return clips, nil
}
