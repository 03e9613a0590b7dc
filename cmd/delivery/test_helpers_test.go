package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type cliTestEnv struct {
	baseDir     string
	assetsDir   string
	outputDir   string
	configPath  string
	contentPath string
	llm         *fakeLLM
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	mkdirAll(t, homeDir)
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"DELIVERY_LLM_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(key, "")
	}
	t.Chdir(base)

	assets := filepath.Join(base, "PUBLISHING_ASSETS_MASTER")
	mkdirAll(t, filepath.Join(assets, "01_VISUAL_REFERENCES", "SSC"))
	mkdirAll(t, filepath.Join(assets, "02_VOICE_GUIDES"))
	mkdirAll(t, filepath.Join(assets, "03_METADATA_MASTER"))
	writeFile(t, filepath.Join(assets, "01_VISUAL_REFERENCES", "SSC", "neon.jpg"), "jpg")
	writeFile(t, filepath.Join(assets, "02_VOICE_GUIDES", "Banned_Keywords.txt"), "cheesy\n\nCorny\n")
	writeFile(t, filepath.Join(assets, "03_METADATA_MASTER", "SSC_Master.csv"),
		"Title,Keywords,Track Description\nNight Drive,\"Dark, Synth\",Pulsing bass opens the cue.\n,Calm,Soft pads drift in.\n")

	fake := newFakeLLM(t)
	env := &cliTestEnv{
		baseDir:     base,
		assetsDir:   assets,
		outputDir:   filepath.Join(base, "out"),
		configPath:  filepath.Join(base, "delivery.toml"),
		contentPath: filepath.Join(base, "album.json"),
		llm:         fake,
	}
	writeTestConfig(t, env, fake.server.URL)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv, baseURL string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
assets_root = %q
output_dir = %q
content_file = %q

[catalog]
default = "redCola"
known = ["redCola", "SSC", "EPP"]

[llm]
api_key = "test-key"
base_url = %q
analysis_model = "analysis-model"
text_model = "text-model"
fast_model = "fast-model"

[logging]
level = "error"
`, env.assetsDir, env.outputDir, env.contentPath, baseURL)
	writeFile(t, env.configPath, content)
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, env, args...)
	if err != nil {
		t.Fatalf("delivery %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func mkdirAll(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// fakeLLM answers chat completions by inspecting the request. failModels
// lists models that answer with HTTP 500.
type fakeLLM struct {
	server *httptest.Server

	mu         sync.Mutex
	failModels map[string]bool
	requests   []fakeRequest
}

type fakeRequest struct {
	Model string
	Text  string
	Audio bool
}

func newFakeLLM(t *testing.T) *fakeLLM {
	t.Helper()
	fake := &fakeLLM{failModels: map[string]bool{}}
	fake.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req := fakeRequest{Model: payload.Model}
		for _, msg := range payload.Messages {
			var text string
			if err := json.Unmarshal(msg.Content, &text); err == nil {
				req.Text += text + "\n"
				continue
			}
			var parts []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			}
			if err := json.Unmarshal(msg.Content, &parts); err == nil {
				for _, part := range parts {
					if part.Type == "input_audio" {
						req.Audio = true
					}
					req.Text += part.Text + "\n"
				}
			}
		}
		fake.mu.Lock()
		fake.requests = append(fake.requests, req)
		fail := fake.failModels[req.Model]
		fake.mu.Unlock()

		if fail {
			http.Error(w, "upstream unavailable", http.StatusInternalServerError)
			return
		}
		reply := fake.reply(req)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": reply}}},
		})
	}))
	t.Cleanup(fake.server.Close)
	return fake
}

func (f *fakeLLM) reply(req fakeRequest) string {
	switch {
	case req.Audio:
		return "```json\n{\"Title\": \"\", \"Composer\": \"\", \"Keywords\": \"Dark, a very long tense cinematic phrase, Epic Drums\", \"Description\": \"The rough idea.\"}\n```"
	case strings.Contains(req.Text, `Respond with {"ok":true}`):
		return `{"ok":true}`
	case strings.Contains(req.Text, "Rephrase the keyword"):
		return "Tense Cinematic"
	case strings.Contains(req.Text, "3-Sentence Arc"):
		return "Pulsing synths open the cue. Drums build tension. Use it under night chases."
	case strings.Contains(req.Text, "EXACTLY ONE powerful"):
		return "Neon noir for late night edits."
	case strings.Contains(req.Text, "Brainstorm exactly 5"):
		return "1. Afterglow Grid"
	case strings.Contains(req.Text, "MidJourney"):
		return "Rain on chrome --v 7.0 --ar 1:1 --sref https://placeholder.url/neon.jpg"
	case strings.Contains(req.Text, "MailChimp"):
		return "A studio memo for supervisors."
	default:
		return "unexpected"
	}
}

func (f *fakeLLM) failModel(model string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failModels[model] = true
}

func (f *fakeLLM) count(model string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, req := range f.requests {
		if req.Model == model {
			n++
		}
	}
	return n
}
