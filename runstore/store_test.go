package runstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alenzhao/alfacinha/seq"
)

func testRun(t *testing.T) Run {
	t.Helper()

	msa := seq.NewMSA()
	if err := msa.AddSlice([]seq.Sequence{
		seq.NewSequenceString("A", "ACGTACGT"),
		seq.NewSequenceString("B", "ACGAACGT"),
	}); err != nil {
		t.Fatalf("build alignment: %v", err)
	}

	run := NewRun()
	run.Tree = "(A:0.1,B:0.2);"
	run.ModelName = "JC69"
	run.Rules = "A|C 0.333333\n"
	run.Rate = 1
	run.Seed = 7
	run.SetRoot(seq.NewSequenceString("", "ACGTACGT"))
	run.SetAlignment(msa)
	run.Iterations = 12
	run.Substitutions = 3
	return run
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Store{
		KindMemory: NewMemoryStore(),
		KindSQLite: sqlite,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for kind, store := range testStores(t) {
		if err := store.Init(ctx); err != nil {
			t.Fatalf("%s: init: %v", kind, err)
		}

		input := testRun(t)
		if err := store.SaveRun(ctx, input); err != nil {
			t.Fatalf("%s: save run: %v", kind, err)
		}

		output, ok, err := store.GetRun(ctx, input.ID)
		if err != nil {
			t.Fatalf("%s: get run: %v", kind, err)
		}
		if !ok {
			t.Fatalf("%s: expected persisted run", kind)
		}
		if output.Tree != input.Tree || output.Seed != input.Seed ||
			output.Substitutions != 3 || output.Root.Residues != "ACGTACGT" {
			t.Fatalf("%s: unexpected run: %+v", kind, output)
		}
		if !output.Created.Equal(input.Created) {
			t.Fatalf("%s: created %s, expected %s",
				kind, output.Created, input.Created)
		}

		msa, err := output.Alignment()
		if err != nil {
			t.Fatalf("%s: alignment: %v", kind, err)
		}
		if len(msa.Entries) != 2 || msa.Entries[1].String() != "ACGAACGT" {
			t.Fatalf("%s: unexpected alignment: %v", kind, msa.Entries)
		}

		_, ok, err = store.GetRun(ctx, "missing")
		if err != nil {
			t.Fatalf("%s: get missing run: %v", kind, err)
		}
		if ok {
			t.Fatalf("%s: expected no run for unknown id", kind)
		}
	}
}

func TestStoreUpsertAndList(t *testing.T) {
	ctx := context.Background()
	for kind, store := range testStores(t) {
		if err := store.Init(ctx); err != nil {
			t.Fatalf("%s: init: %v", kind, err)
		}

		first := testRun(t)
		second := testRun(t)
		second.Created = first.Created.Add(time.Second)
		for _, run := range []Run{second, first} {
			if err := store.SaveRun(ctx, run); err != nil {
				t.Fatalf("%s: save run: %v", kind, err)
			}
		}

		first.Seed = 99
		if err := store.SaveRun(ctx, first); err != nil {
			t.Fatalf("%s: overwrite run: %v", kind, err)
		}

		runs, err := store.ListRuns(ctx)
		if err != nil {
			t.Fatalf("%s: list runs: %v", kind, err)
		}
		if len(runs) != 2 {
			t.Fatalf("%s: expected 2 runs, got %d", kind, len(runs))
		}
		if runs[0].ID != first.ID || runs[1].ID != second.ID {
			t.Fatalf("%s: runs out of order: %s, %s",
				kind, runs[0].ID, runs[1].ID)
		}
		if runs[0].Seed != 99 {
			t.Fatalf("%s: expected overwritten seed, got %d", kind, runs[0].Seed)
		}

		if err := store.DeleteRun(ctx, first.ID); err != nil {
			t.Fatalf("%s: delete run: %v", kind, err)
		}
		if _, ok, _ := store.GetRun(ctx, first.ID); ok {
			t.Fatalf("%s: expected deleted run to be gone", kind)
		}
	}
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	store := NewSQLiteStore(path)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	input := testRun(t)
	if err := store.SaveRun(ctx, input); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := NewSQLiteStore(path)
	t.Cleanup(func() { _ = reopened.Close() })
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	output, ok, err := reopened.GetRun(ctx, input.ID)
	if err != nil || !ok {
		t.Fatalf("get run after reopen: ok=%v err=%v", ok, err)
	}
	if output.ModelName != "JC69" {
		t.Fatalf("unexpected model: %s", output.ModelName)
	}
}

func TestStoreNotInitialized(t *testing.T) {
	ctx := context.Background()
	if err := NewMemoryStore().SaveRun(ctx, testRun(t)); err == nil {
		t.Fatal("expected error saving to uninitialized memory store")
	}
	if _, _, err := NewSQLiteStore("x.db").GetRun(ctx, "id"); err == nil {
		t.Fatal("expected error reading from uninitialized sqlite store")
	}
	if err := NewSQLiteStore("").Init(ctx); err == nil {
		t.Fatal("expected error for empty sqlite path")
	}
}

func TestNewStore(t *testing.T) {
	for _, kind := range []string{"", KindMemory, KindSQLite} {
		store, err := NewStore(kind, "runs.db")
		if err != nil {
			t.Fatalf("new store %q: %v", kind, err)
		}
		if err := CloseIfSupported(store); err != nil {
			t.Fatalf("close %q: %v", kind, err)
		}
	}
	if _, err := NewStore("postgres", ""); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}

func TestDecodeVersionMismatch(t *testing.T) {
	run := testRun(t)
	run.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}
