package cli

import "testing"

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()

	want := map[string]bool{"serve": false, "migrate": false, "analyze": false}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing persistent --config flag")
	}
}

func TestAnalyzeRequiresFlags(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"analyze"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error when required flags are missing")
	}
}
