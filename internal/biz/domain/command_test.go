package domain

import "testing"

func TestCommandTable_SetNormalizesKey(t *testing.T) {
	table := NewCommandTable()

	key := table.Set("Hello There", Command{Kind: CommandText, Text: "hi"})
	if key != "hello there" {
		t.Errorf("Expected lowercased key, got %q", key)
	}

	table.CaseSensitive = true
	key = table.Set("Hello There", Command{Kind: CommandText, Text: "hi"})
	if key != "Hello There" {
		t.Errorf("Expected preserved key, got %q", key)
	}
}

func TestCommandTable_SetCaseSensitive_Rekeys(t *testing.T) {
	table := NewCommandTable()
	table.CaseSensitive = true
	table.Set("Hello", Command{Kind: CommandText, Text: "from Hello"})
	table.Set("HELLO", Command{Kind: CommandText, Text: "from HELLO"})
	table.Set("Bye", Command{Kind: CommandText, Text: "bye"})

	table.SetCaseSensitive(false)

	if len(table.Commands) != 2 {
		t.Fatalf("Expected 2 commands after rekeying, got %d", len(table.Commands))
	}
	cmd, ok := table.Commands["hello"]
	if !ok {
		t.Fatal("Expected lowercased key 'hello'")
	}
	// Sorted rekey order: "HELLO" before "Hello", so "Hello" wins.
	if cmd.Text != "from Hello" {
		t.Errorf("Expected last write to win on collision, got %q", cmd.Text)
	}
	if _, ok := table.Commands["bye"]; !ok {
		t.Error("Expected non-colliding key to survive")
	}
}

func TestCommandTable_SetCaseSensitive_NoRestore(t *testing.T) {
	table := NewCommandTable()
	table.CaseSensitive = true
	table.Set("Hello", Command{Kind: CommandText, Text: "hi"})

	table.SetCaseSensitive(false)
	table.SetCaseSensitive(true)

	if _, ok := table.Commands["Hello"]; ok {
		t.Error("Toggling back must not restore original casing")
	}
	if _, ok := table.Commands["hello"]; !ok {
		t.Error("Expected lowercased key to remain")
	}
}

func TestCommandTable_Delete(t *testing.T) {
	table := NewCommandTable()
	table.Set("Hello", Command{Kind: CommandText, Text: "hi"})

	if !table.Delete("HELLO") {
		t.Error("Delete must normalize the trigger before lookup")
	}
	if table.Delete("hello") {
		t.Error("Second delete must report missing")
	}
}

func TestMediaRef_EncodeParse(t *testing.T) {
	ref := &MediaRef{ID: "uid42", AccessToken: "tok-abc", Reference: []byte{0xde, 0xad}}

	parsed, err := ParseMediaRef(ref.Encode())
	if err != nil {
		t.Fatalf("ParseMediaRef failed: %v", err)
	}
	if parsed.ID != "uid42" || parsed.AccessToken != "tok-abc" {
		t.Errorf("Round-trip mismatch: %+v", parsed)
	}
	if len(parsed.Reference) != 2 || parsed.Reference[0] != 0xde {
		t.Errorf("Reference bytes mismatch: %x", parsed.Reference)
	}
}

func TestMediaRef_EmptyReferenceBytes(t *testing.T) {
	ref := &MediaRef{ID: "uid", AccessToken: "tok"}

	parsed, err := ParseMediaRef(ref.Encode())
	if err != nil {
		t.Fatalf("ParseMediaRef failed: %v", err)
	}
	if len(parsed.Reference) != 0 {
		t.Errorf("Expected empty reference bytes, got %x", parsed.Reference)
	}
}

func TestParseMediaRef_Invalid(t *testing.T) {
	tests := []string{
		"",
		"only-one-part",
		"two:parts",
		":tok:",      // missing id
		"uid::",      // missing token
		"uid:tok:zz", // undecodable hex
	}

	for _, input := range tests {
		if _, err := ParseMediaRef(input); err == nil {
			t.Errorf("ParseMediaRef(%q): expected error", input)
		}
	}
}

func TestCommand_Sendable(t *testing.T) {
	if !(Command{Kind: CommandText, Text: "hi"}).Sendable() {
		t.Error("Text command must be sendable")
	}
	if (Command{Kind: CommandMedia}).Sendable() {
		t.Error("Media command without reference must not be sendable")
	}
	if !(Command{Kind: CommandMedia, Media: &MediaRef{ID: "a", AccessToken: "b"}}).Sendable() {
		t.Error("Media command with reference must be sendable")
	}
}
