// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/expgen/pkg/config"
)

const test1Name = "test1"

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := []testConfig{
		{Name: test1Name, Value: 123},
		{Name: "test2", Value: 456},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testConfig
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("Expected 2 items, got %d", len(result))
	}
	if result[0].Name != test1Name || result[0].Value != 123 {
		t.Errorf("Unexpected data: %+v", result[0])
	}
}

func TestWriter_SerializeJSON_SortedKeysAndIndent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	n := config.New().
		Set("zeta", 1).
		Set("alpha", config.New().Set("b", true).Set("a", "x<y"))

	if err := writer.Serialize(context.Background(), []*config.Node{n}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	want := "[\n" +
		"    {\n" +
		"        \"alpha\": {\n" +
		"            \"a\": \"x<y\",\n" +
		"            \"b\": true\n" +
		"        },\n" +
		"        \"zeta\": 1\n" +
		"    }\n" +
		"]\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected JSON output:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	data := []testConfig{
		{Name: test1Name, Value: 123},
		{Name: "test2", Value: 456},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testConfig
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("Expected 2 items, got %d", len(result))
	}
	if result[1].Name != "test2" || result[1].Value != 456 {
		t.Errorf("Unexpected data: %+v", result[1])
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := []any{
		testConfig{Name: test1Name, Value: 123},
		testConfig{Name: "test2", Value: 456},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "FIELD") || !strings.Contains(output, "VALUE") {
		t.Error("Expected table header not found")
	}
	if !strings.Contains(output, "[0].Name") || !strings.Contains(output, "[1].Value") {
		t.Error("Expected flattened keys not found")
	}
}

func TestWriter_SerializeTable_Nodes(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	n := config.New().
		Set("answers_per_round", 5).
		Set("prediction_config", config.New().Set("method", "predict"))

	if err := writer.Serialize(context.Background(), []*config.Node{n}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"[0].answers_per_round", "[0].prediction_config.method", "predict"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in table output:\n%s", want, output)
		}
	}
}

func TestWriter_SerializeTable_EmptyData(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), struct{}{}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if got := buf.String(); got != "<empty>\n" {
		t.Errorf("Expected <empty>, got %q", got)
	}
}

func TestWriter_SerializeTable_NilValues(t *testing.T) {
	type withPointer struct {
		Name *string
	}

	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), withPointer{}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<nil>") {
		t.Errorf("Expected nil value rendered, got:\n%s", buf.String())
	}
}

func TestWriter_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter("invalid", &buf)

	data := testConfig{Name: "test", Value: 123}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize should fall back to JSON: %v", err)
	}

	var result testConfig
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal as JSON: %v", err)
	}
	if result.Name != "test" || result.Value != 123 {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestWriter_EncodingErrorWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	err := writer.Serialize(context.Background(), map[string]any{"bad": make(chan int)})
	if err == nil {
		t.Fatal("Expected error for unencodable value")
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output on failure, got %q", buf.String())
	}
}

func TestWriter_CanceledContext(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := writer.Serialize(ctx, testConfig{}); err == nil {
		t.Fatal("Expected error for canceled context")
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestWriter_Close(t *testing.T) {
	writer := NewWriter(FormatJSON, nil)
	if err := writer.Close(); err != nil {
		t.Errorf("Close on stdout writer should be a no-op: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("second Close should be a no-op: %v", err)
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("empty path selects stdout", func(t *testing.T) {
		writer, err := NewFileWriterOrStdout(FormatJSON, "  ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if writer.output != os.Stdout {
			t.Error("Expected stdout writer")
		}
	})

	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.yaml")
		writer, err := NewFileWriterOrStdout(FormatYAML, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := writer.Serialize(context.Background(), testConfig{Name: "file", Value: 7}); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if !strings.Contains(string(content), "name: file") {
			t.Errorf("Unexpected file content: %s", content)
		}
	})

	t.Run("uncreatable file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.json")
		if _, err := NewFileWriterOrStdout(FormatJSON, path); err == nil {
			t.Fatal("Expected error for uncreatable path")
		}
	})
}

func TestFormat_IsUnknown(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{"xml", true},
		{"", true},
	}

	for _, tt := range tests {
		if got := tt.format.IsUnknown(); got != tt.want {
			t.Errorf("Format(%q).IsUnknown() = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestSupportedFormats(t *testing.T) {
	got := SupportedFormats()
	if len(got) != 3 {
		t.Fatalf("Expected 3 formats, got %v", got)
	}
	for _, f := range got {
		if Format(f).IsUnknown() {
			t.Errorf("SupportedFormats returned unknown format %q", f)
		}
	}
}
