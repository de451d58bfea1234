package internal

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewWordBank(t *testing.T) {
	tests := []struct {
		name     string
		words    []string
		excluded []string
		want     []string
		wantErr  bool
	}{
		{
			name:  "normalizes case and whitespace",
			words: []string{"Cat", " DOG ", "bird"},
			want:  []string{"cat", "dog", "bird"},
		},
		{
			name:  "drops duplicates keeping first position",
			words: []string{"cat", "dog", "CAT", "cat"},
			want:  []string{"cat", "dog"},
		},
		{
			name:     "drops excluded words",
			words:    []string{"cat", "dog", "bird"},
			excluded: []string{"DOG"},
			want:     []string{"cat", "bird"},
		},
		{
			name:  "drops empty entries",
			words: []string{"cat", "", "  "},
			want:  []string{"cat"},
		},
		{
			name:    "rejects non-letter characters",
			words:   []string{"cat", "d0g"},
			wantErr: true,
		},
		{
			name:    "rejects hyphenated words",
			words:   []string{"tip-top"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewWordBank(tt.words, tt.excluded)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewWordBank() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(b.Words(), tt.want) {
				t.Errorf("Words() = %v, want %v", b.Words(), tt.want)
			}
			if b.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", b.Len(), len(tt.want))
			}
		})
	}
}

func TestWordBank_OfLength(t *testing.T) {
	b, err := NewWordBank([]string{"cat", "dogs", "car", "at"}, nil)
	if err != nil {
		t.Fatalf("NewWordBank() error = %v", err)
	}

	if got := b.OfLength(3); !reflect.DeepEqual(got, []string{"cat", "car"}) {
		t.Errorf("OfLength(3) = %v", got)
	}
	if got := b.OfLength(2); !reflect.DeepEqual(got, []string{"at"}) {
		t.Errorf("OfLength(2) = %v", got)
	}
	if got := b.OfLength(7); got != nil {
		t.Errorf("OfLength(7) = %v, want nil", got)
	}
}

func TestLoadWordBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# a comment\ncat\n\nDog\n  bird  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing words file: %v", err)
	}

	b, err := LoadWordBank(path, nil)
	if err != nil {
		t.Fatalf("LoadWordBank() error = %v", err)
	}
	want := []string{"cat", "dog", "bird"}
	if !reflect.DeepEqual(b.Words(), want) {
		t.Errorf("Words() = %v, want %v", b.Words(), want)
	}
}

func TestLoadWordBank_MissingFile(t *testing.T) {
	if _, err := LoadWordBank(filepath.Join(t.TempDir(), "absent.txt"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
