package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/kondate/internal/models"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"grilled salmon", "-limit", "3"},
			expected: []string{"-limit", "3", "grilled salmon"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-category", "dinner", "salmon"},
			expected: []string{"-category", "dinner", "salmon"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"oatmeal"},
			expected: []string{"oatmeal"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"greek", "yogurt", "--fuzzy"},
			expected: []string{"--fuzzy", "greek", "yogurt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"salmon"}, "salmon"},
		{"multiple words", []string{"chicken", "salad"}, "chicken salad"},
		{"single quoted phrase", []string{"chicken salad"}, "chicken salad"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSearchQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestSplitItems(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"eggs", []string{"eggs"}},
		{"eggs; toast ;", []string{"eggs", "toast"}},
		{" ; ", nil},
	}
	for _, tt := range tests {
		if got := splitItems(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitItems(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuildPlanRequest_flags(t *testing.T) {
	req, err := buildPlanRequest(planFlags{
		target: 1800,
		eaten:  []string{"breakfast", "Lunch=salad; apple"},
		wants:  []string{"dinner= something with fish "},
		intent: "light day",
	}, strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if req.UserProfile.TargetCalories != 1800 {
		t.Errorf("target = %d, want 1800", req.UserProfile.TargetCalories)
	}
	if req.UserProfile.TDEE != models.DefaultUserProfile().TDEE {
		t.Errorf("profile defaults not applied: %+v", req.UserProfile)
	}
	eaten := req.ParsedInput.AlreadyEaten
	if !reflect.DeepEqual(eaten[models.Breakfast], []string{"eaten"}) {
		t.Errorf("breakfast eaten = %v", eaten[models.Breakfast])
	}
	if !reflect.DeepEqual(eaten[models.Lunch], []string{"salad", "apple"}) {
		t.Errorf("lunch eaten = %v", eaten[models.Lunch])
	}
	if got := req.ParsedInput.MealRequests[models.Dinner]; got != "something with fish" {
		t.Errorf("dinner request = %q", got)
	}
	if req.ParsedInput.UserIntent != "light day" {
		t.Errorf("intent = %q", req.ParsedInput.UserIntent)
	}
}

func TestBuildPlanRequest_fileAndStdin(t *testing.T) {
	body := `{
  "user_profile": {"target_calories": 2400, "goals": "gain muscle"},
  "parsed_input": {"already_eaten": {"breakfast": ["oatmeal"]}, "meal_requests": {"snacks": "fruit"}}
}`
	path := filepath.Join(t.TempDir(), "request.json")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	fromFile, err := buildPlanRequest(planFlags{file: path}, strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	fromStdin, err := buildPlanRequest(planFlags{file: "-"}, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	for _, req := range []*planRequest{fromFile, fromStdin} {
		if req.UserProfile.TargetCalories != 2400 || req.UserProfile.Goals != "gain muscle" {
			t.Errorf("unexpected profile: %+v", req.UserProfile)
		}
		if !req.ParsedInput.Eaten(models.Breakfast) {
			t.Error("breakfast should be eaten")
		}
		if req.ParsedInput.Request(models.Snacks) != "fruit" {
			t.Errorf("snacks request = %q", req.ParsedInput.Request(models.Snacks))
		}
	}

	// --target overrides the file
	req, err := buildPlanRequest(planFlags{file: path, target: 1500}, strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if req.UserProfile.TargetCalories != 1500 {
		t.Errorf("target = %d, want 1500", req.UserProfile.TargetCalories)
	}
}

func TestBuildPlanRequest_errors(t *testing.T) {
	tests := []struct {
		name  string
		flags planFlags
		stdin string
	}{
		{"unknown eaten slot", planFlags{eaten: []string{"brunch"}}, ""},
		{"want without text", planFlags{wants: []string{"dinner"}}, ""},
		{"unknown want slot", planFlags{wants: []string{"supper=soup"}}, ""},
		{"malformed stdin", planFlags{file: "-"}, "{not json"},
		{"missing file", planFlags{file: filepath.Join(t.TempDir(), "nope.json")}, ""},
		{"non-positive target", planFlags{file: "-"}, `{"user_profile": {"target_calories": 0}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildPlanRequest(tt.flags, strings.NewReader(tt.stdin)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_defaultsWhenNothingFound(t *testing.T) {
	if _, err := os.Stat(defaultConfigPath); err == nil {
		t.Skip("a system config exists at the default path")
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want empty", resolved)
	}
	if cfg.Server.Port == 0 {
		t.Error("defaults should set a server port")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}

	if _, _, err := loadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("explicit missing path should fail")
	}
}
