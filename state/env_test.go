package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"cssom/config"
	"cssom/css"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		ctx := ContextWithEnv(context.Background())
		if EnvFromContext(ctx) == nil {
			t.Error("Expected non-nil environment")
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()

		// Use plain context without env
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > 1*time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Error("Expected restoreStdLog to be set")
		}
		env.RestoreStdLog()
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}

		// Should not panic
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestLocalEnv_NewParser(t *testing.T) {
	t.Run("from configuration", func(t *testing.T) {
		env := &LocalEnv{
			Cfg: &config.Config{
				Version: 1,
				Parser:  config.ParserConfig{Locale: "de", LegacyPseudoElements: false},
			},
			Log: zap.NewNop(),
		}

		p := env.NewParser()
		list, err := p.ParseSelectors("p:before")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var pseudo bool
		css.Walk(list[0], func(s css.Selector) {
			if s.Kind() == css.SelectorPseudoElement {
				pseudo = true
			}
		})
		if pseudo {
			t.Error("legacy pseudo-elements must be disabled by configuration")
		}

		if _, err := p.ParseSelectors("a["); err == nil {
			t.Fatal("expected error")
		}
		want := "Fehler in Attributselektor. (Unerwartetes Ende der Eingabe. Erwartet wurde eines von: <IDENT>.)"
		if got := p.ErrorHandler().ErrorMessage(); got != want {
			t.Errorf("expected localized message %q, got %q", want, got)
		}
	})

	t.Run("without configuration", func(t *testing.T) {
		env := &LocalEnv{}
		p := env.NewParser()
		if _, err := p.ParseSelectors("li:first-line"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("separate handlers", func(t *testing.T) {
		env := &LocalEnv{}
		first, second := env.NewParser(), env.NewParser()
		_, _ = first.ParseSelectors("..")
		if second.ErrorHandler().ErrorCount() != 0 {
			t.Error("parsers must not share error handler")
		}
	})
}

func TestLocalEnv_Integration(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)

	env.Cfg = &config.Config{Version: 1}
	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	env.Rpt = &config.Report{}

	env.RedirectStdLog()
	time.Sleep(5 * time.Millisecond)
	if env.Uptime() < 5*time.Millisecond {
		t.Error("Uptime too small")
	}
	env.RestoreStdLog()

	if env.Cfg == nil || env.Log == nil || env.Rpt == nil {
		t.Error("Environment not properly initialized")
	}
}
