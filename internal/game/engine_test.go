// internal/game/engine_test.go

package game

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type dictSet map[string]struct{}

func newDict(words ...string) dictSet {
	d := make(dictSet, len(words))
	for _, w := range words {
		d[w] = struct{}{}
	}
	return d
}

func (d dictSet) Contains(word string) bool {
	_, ok := d[word]
	return ok
}

func TestGradeWord(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		guess  string
		want   []Grade
	}{
		{
			name:   "all correct",
			secret: "radio",
			guess:  "radio",
			want:   []Grade{GradeCorrect, GradeCorrect, GradeCorrect, GradeCorrect, GradeCorrect},
		},
		{
			name:   "no shared letters",
			secret: "cat",
			guess:  "dog",
			want:   []Grade{GradeIncorrect, GradeIncorrect, GradeIncorrect},
		},
		{
			name:   "duplicate guess letters capped by secret count",
			secret: "abb",
			guess:  "bab",
			want:   []Grade{GradeWrongPlace, GradeWrongPlace, GradeCorrect},
		},
		{
			name:   "exact matches consume before wrong-place scan",
			secret: "deed",
			guess:  "eedd",
			want:   []Grade{GradeWrongPlace, GradeCorrect, GradeWrongPlace, GradeCorrect},
		},
		{
			name:   "second duplicate exhausts secret supply",
			secret: "abc",
			guess:  "aab",
			want:   []Grade{GradeCorrect, GradeIncorrect, GradeWrongPlace},
		},
		{
			name:   "exact match consumes the only secret copy",
			secret: "aa1a",
			guess:  "1111",
			want:   []Grade{GradeIncorrect, GradeIncorrect, GradeCorrect, GradeIncorrect},
		},
		{
			name:   "earlier guess duplicate claims remaining secret copy",
			secret: "aabz",
			guess:  "zaaa",
			want:   []Grade{GradeWrongPlace, GradeCorrect, GradeWrongPlace, GradeIncorrect},
		},
		{
			name:   "single letter miss",
			secret: "x",
			guess:  "y",
			want:   []Grade{GradeIncorrect},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GradeWord(tt.secret, tt.guess)
			if err != nil {
				t.Fatalf("GradeWord(%q, %q) returned error: %v", tt.secret, tt.guess, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GradeWord(%q, %q) = %v, want %v", tt.secret, tt.guess, got, tt.want)
			}
		})
	}
}

func TestGradeWordLengthMismatch(t *testing.T) {
	_, err := GradeWord("trace", "cart")
	if err == nil {
		t.Fatal("expected error for mismatched lengths, got nil")
	}
	var lm *LengthMismatchError
	if !errors.As(err, &lm) {
		t.Fatalf("expected LengthMismatchError, got %T: %v", err, err)
	}
	if lm.Expected != 5 || lm.Actual != 4 {
		t.Errorf("LengthMismatchError = {Expected: %d, Actual: %d}, want {Expected: 5, Actual: 4}", lm.Expected, lm.Actual)
	}
}

// The consumption rule means a letter can never earn more Correct+WrongPlace
// grades than the secret has copies of it.
func TestGradeWordDuplicateCap(t *testing.T) {
	pairs := [][2]string{
		{"abb", "bab"},
		{"deed", "eedd"},
		{"aabbb", "bbbaa"},
		{"lllll", "light"},
		{"moody", "domes"},
		{"banana", "ananab"},
	}

	for _, p := range pairs {
		secret, guess := p[0], p[1]
		grades, err := GradeWord(secret, guess)
		if err != nil {
			t.Fatalf("GradeWord(%q, %q) returned error: %v", secret, guess, err)
		}
		for c := byte('a'); c <= 'z'; c++ {
			credited := 0
			for i := range grades {
				if guess[i] == c && grades[i] != GradeIncorrect {
					credited++
				}
			}
			if have := strings.Count(secret, string(c)); credited > have {
				t.Errorf("GradeWord(%q, %q): letter %q credited %d times, secret holds %d", secret, guess, c, credited, have)
			}
		}
	}
}

func TestGradePhrase(t *testing.T) {
	dict := newDict("cat", "dog", "rat", "bats")

	t.Run("crossed words share no letters", func(t *testing.T) {
		got, err := GradePhrase([]string{"cat", "dog"}, []string{"dog", "cat"}, dict)
		if err != nil {
			t.Fatalf("GradePhrase returned error: %v", err)
		}
		want := Outcome{
			{GradeIncorrect, GradeIncorrect, GradeIncorrect},
			{GradeIncorrect, GradeIncorrect, GradeIncorrect},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("GradePhrase = %v, want %v", got, want)
		}
	})

	t.Run("guess equal to secret bypasses dictionary", func(t *testing.T) {
		got, err := GradePhrase([]string{"zzyzx"}, []string{"zzyzx"}, dict)
		if err != nil {
			t.Fatalf("GradePhrase returned error: %v", err)
		}
		if !got.AllCorrect() {
			t.Errorf("GradePhrase = %v, want all Correct", got)
		}
	})

	t.Run("word count mismatch", func(t *testing.T) {
		_, err := GradePhrase([]string{"cat", "dog"}, []string{"cat"}, dict)
		var wc *WordCountMismatchError
		if !errors.As(err, &wc) {
			t.Fatalf("expected WordCountMismatchError, got %T: %v", err, err)
		}
		if wc.Expected != 2 || wc.Actual != 1 {
			t.Errorf("WordCountMismatchError = {Expected: %d, Actual: %d}, want {Expected: 2, Actual: 1}", wc.Expected, wc.Actual)
		}
	})

	t.Run("unknown word reported eagerly", func(t *testing.T) {
		// Both guess words are bad; only the first is reported.
		_, err := GradePhrase([]string{"cat", "dog"}, []string{"xqz", "jkq"}, dict)
		var uw *UnknownWordError
		if !errors.As(err, &uw) {
			t.Fatalf("expected UnknownWordError, got %T: %v", err, err)
		}
		if uw.Word != "xqz" {
			t.Errorf("UnknownWordError.Word = %q, want %q", uw.Word, "xqz")
		}
	})

	t.Run("dictionary word of wrong length fails length check", func(t *testing.T) {
		_, err := GradePhrase([]string{"cat"}, []string{"bats"}, dict)
		var lm *LengthMismatchError
		if !errors.As(err, &lm) {
			t.Fatalf("expected LengthMismatchError, got %T: %v", err, err)
		}
		if lm.Expected != 3 || lm.Actual != 4 {
			t.Errorf("LengthMismatchError = {Expected: %d, Actual: %d}, want {Expected: 3, Actual: 4}", lm.Expected, lm.Actual)
		}
	})

	t.Run("later words still graded after earlier valid ones", func(t *testing.T) {
		got, err := GradePhrase([]string{"cat", "rat"}, []string{"rat", "rat"}, dict)
		if err != nil {
			t.Fatalf("GradePhrase returned error: %v", err)
		}
		want := Outcome{
			{GradeIncorrect, GradeCorrect, GradeCorrect},
			{GradeCorrect, GradeCorrect, GradeCorrect},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("GradePhrase = %v, want %v", got, want)
		}
	})
}
