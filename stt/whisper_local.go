package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// WhisperLocal implements Provider on top of the whisper.cpp CLI. All
// inference runs on this machine; the network is touched only by Setup when
// the model file is missing.
type WhisperLocal struct {
	modelPath string
	modelSize string // "tiny", "base", "small", "medium", "large"
	binPath   string

	mu    sync.RWMutex
	ready bool
}

// WhisperLocalConfig holds configuration for WhisperLocal.
type WhisperLocalConfig struct {
	ModelSize string // "tiny", "base", "small", "medium", "large"
	ModelDir  string // directory to store models
	BinPath   string // path to the whisper.cpp binary (optional, found on PATH otherwise)
}

// Model download sources and approximate sizes.
var modelSizes = map[string]struct {
	URL  string
	Size int64
}{
	"tiny":   {"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin", 75 * 1024 * 1024},
	"base":   {"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.bin", 150 * 1024 * 1024},
	"small":  {"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-small.bin", 500 * 1024 * 1024},
	"medium": {"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-medium.bin", 1500 * 1024 * 1024},
	"large":  {"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-large-v3.bin", 3000 * 1024 * 1024},
}

// NewWhisperLocal creates a new WhisperLocal provider.
func NewWhisperLocal(cfg WhisperLocalConfig) (*WhisperLocal, error) {
	if cfg.ModelSize == "" {
		cfg.ModelSize = "tiny"
	}
	if _, ok := modelSizes[cfg.ModelSize]; !ok {
		return nil, fmt.Errorf("invalid model size: %s", cfg.ModelSize)
	}

	if cfg.ModelDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		cfg.ModelDir = filepath.Join(configDir, "local-dictator", "models")
	}

	w := &WhisperLocal{
		modelSize: cfg.ModelSize,
		modelPath: filepath.Join(cfg.ModelDir, fmt.Sprintf("ggml-%s.bin", cfg.ModelSize)),
		binPath:   cfg.BinPath,
	}
	if w.binPath == "" {
		w.binPath = findWhisperBinary()
	}

	if _, err := os.Stat(w.modelPath); err == nil && w.binPath != "" {
		w.ready = true
	}
	return w, nil
}

func (w *WhisperLocal) Name() string { return "whisper-local" }

func (w *WhisperLocal) DisplayName() string {
	return fmt.Sprintf("Whisper Local (%s)", w.modelSize)
}

func (w *WhisperLocal) IsReady() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ready
}

// Setup downloads the whisper model if needed. The binary itself is expected
// to be installed by the user (brew install whisper-cpp or equivalent).
func (w *WhisperLocal) Setup(progress func(percent int)) error {
	if w.binPath == "" {
		return fmt.Errorf("whisper.cpp binary not found, please install whisper.cpp")
	}
	if w.IsReady() {
		return nil
	}

	info := modelSizes[w.modelSize]
	if err := os.MkdirAll(filepath.Dir(w.modelPath), 0755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	if err := downloadFile(info.URL, w.modelPath, info.Size, progress); err != nil {
		return fmt.Errorf("download model: %w", err)
	}

	w.mu.Lock()
	w.ready = true
	w.mu.Unlock()
	if progress != nil {
		progress(100)
	}
	return nil
}

func downloadFile(url, dst string, expectedSize int64, progress func(percent int)) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http status: %d", resp.StatusCode)
	}

	tmpPath := dst + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	var downloaded int64
	buf := make([]byte, 32*1024)
	lastPercent := 0
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write file: %w", werr)
			}
			downloaded += int64(n)
			if expectedSize > 0 && progress != nil {
				if pct := int(downloaded * 100 / expectedSize); pct > lastPercent {
					lastPercent = pct
					progress(pct)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return os.Rename(tmpPath, dst)
}

// Transcribe runs whisper.cpp over the recorded buffer. The samples are
// written to a temporary WAV file, the binary is invoked with JSON output,
// and the segment texts are concatenated without any normalization.
func (w *WhisperLocal) Transcribe(ctx context.Context, samples []int16, language string) (string, error) {
	if !w.IsReady() {
		return "", fmt.Errorf("whisper-local is not ready: model not downloaded")
	}

	audioPath := filepath.Join(os.TempDir(), fmt.Sprintf("dictate_%s.wav", shortID()))
	if err := writeWAV(audioPath, samples, 16000, 1); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	defer os.Remove(audioPath)

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-oj", // JSON to stdout
		"--no-prints",
	}
	if language != "" {
		args = append(args, "-l", language)
	}

	cmd := exec.CommandContext(ctx, w.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("whisper.cpp failed: %w, stderr: %s", err, stderr.String())
	}

	return parseWhisperOutput(stdout.Bytes()), nil
}

func (w *WhisperLocal) Close() error { return nil }

func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

// parseWhisperOutput extracts the transcription from whisper.cpp JSON output,
// falling back to the raw output if it is not JSON.
func parseWhisperOutput(out []byte) string {
	var parsed whisperCppOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return string(out)
	}
	var text strings.Builder
	for _, seg := range parsed.Transcription {
		text.WriteString(seg.Text)
	}
	return text.String()
}

func findWhisperBinary() string {
	// whisper-cli is the Homebrew name
	names := []string{"whisper-cli", "whisper-cpp", "whisper", "main"}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	homeDir, _ := os.UserHomeDir()
	locations := []string{
		"/opt/homebrew/bin",
		"/usr/local/bin",
		filepath.Join(homeDir, ".local", "bin"),
		filepath.Join(homeDir, "whisper.cpp"),
	}
	for _, loc := range locations {
		for _, name := range names {
			path := filepath.Join(loc, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// whisperCppOutput represents the JSON output from whisper.cpp.
type whisperCppOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Text    string `json:"text"`
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
	} `json:"transcription"`
}
