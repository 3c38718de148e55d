package settings

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	sherrors "github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/storage"
	"github.com/HartBrook/sharpen/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		record string
		stored bool
	}{
		{"absent", "", false},
		{"malformed json", "{not json", true},
		{"no provider", `{"temperature":0.2}`, true},
		{"unknown provider", `{"provider":"bard","temperature":0.2}`, true},
		{"wrong shape", `[1,2,3]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storagetest.New()
			if tt.stored {
				kv.Set(storage.SettingsKey, []byte(tt.record))
			}

			store := Load(context.Background(), kv, nil)
			assert.Equal(t, Default(), store.Current())
		})
	}
}

func TestLoad_ReadErrorFallsBack(t *testing.T) {
	kv := storagetest.New()
	kv.FailGet = errors.New("disk on fire")

	store := Load(context.Background(), kv, nil)
	assert.Equal(t, Default(), store.Current())
}

func TestLoad_Rehydrates(t *testing.T) {
	kv := storagetest.New()
	kv.Set(storage.SettingsKey, []byte(`{"provider":"openai","temperature":0.3,"apiKey":"sk-1","baseUrl":"http://localhost:11434/v1","model":"llama3"}`))

	got := Load(context.Background(), kv, nil).Current()

	assert.Equal(t, Settings{
		Provider:    ProviderOpenAI,
		Temperature: 0.3,
		APIKey:      "sk-1",
		BaseURL:     "http://localhost:11434/v1",
		Model:       "llama3",
	}, got)
}

func TestLoad_NormalizesRecord(t *testing.T) {
	kv := storagetest.New()
	kv.Set(storage.SettingsKey, []byte(`{"provider":"gemini","temperature":1.7,"apiKey":"g","baseUrl":"stray","model":"stray"}`))

	got := Load(context.Background(), kv, nil).Current()

	assert.Equal(t, Settings{Provider: ProviderGemini, Temperature: 1, APIKey: "g"}, got)
}

func TestLoad_MissingTemperatureUsesDefault(t *testing.T) {
	kv := storagetest.New()
	kv.Set(storage.SettingsKey, []byte(`{"provider":"gemini","apiKey":"g"}`))

	got := Load(context.Background(), kv, nil).Current()

	assert.Equal(t, Settings{Provider: ProviderGemini, Temperature: DefaultTemperature, APIKey: "g"}, got)
}

func TestLoad_ZeroTemperatureIsKept(t *testing.T) {
	kv := storagetest.New()
	require.NoError(t, Load(context.Background(), kv, nil).SetTemperature(context.Background(), 0))

	got := Load(context.Background(), kv, nil).Current()

	assert.Equal(t, 0.0, got.Temperature)
}

func TestStore_SetVariant(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New()
	store := Load(ctx, kv, nil)

	require.NoError(t, store.SetTemperature(ctx, 0.2))
	require.NoError(t, store.SetVariant(ctx, ProviderOpenAI))

	assert.Equal(t, Settings{
		Provider:    ProviderOpenAI,
		Temperature: 0.2,
		BaseURL:     DefaultOpenAIBaseURL,
		Model:       DefaultOpenAIModel,
	}, store.Current())

	_, err := store.UpdateField(ctx, "apiKey", "sk-test")
	require.NoError(t, err)

	// Switching back drops everything but temperature.
	require.NoError(t, store.SetVariant(ctx, ProviderGemini))
	assert.Equal(t, Settings{Provider: ProviderGemini, Temperature: 0.2}, store.Current())

	// Persisted record matches.
	var persisted Settings
	require.NoError(t, json.Unmarshal(kv.Raw(storage.SettingsKey), &persisted))
	assert.Equal(t, store.Current(), persisted)
}

func TestStore_SetVariantRejectsUnknown(t *testing.T) {
	store := Load(context.Background(), storagetest.New(), nil)

	err := store.SetVariant(context.Background(), Provider("bard"))
	require.Error(t, err)
	assert.Equal(t, sherrors.ErrValidation, sherrors.KindOf(err))
}

func TestStore_UpdateField(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New()
	store := Load(ctx, kv, nil)

	t.Run("openai-only field in gemini variant is a no-op", func(t *testing.T) {
		applied, err := store.UpdateField(ctx, "baseUrl", "http://example.com")
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Empty(t, store.Current().BaseURL)
		assert.Equal(t, 0, kv.Puts())
	})

	t.Run("gemini api key", func(t *testing.T) {
		applied, err := store.UpdateField(ctx, "api_key", "g-key")
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, "g-key", store.Current().APIKey)
		assert.Equal(t, 1, kv.Puts())
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := store.UpdateField(ctx, "organization", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown settings field")
	})

	t.Run("openai fields", func(t *testing.T) {
		require.NoError(t, store.SetVariant(ctx, ProviderOpenAI))
		for name, value := range map[string]string{"base-url": "http://localhost:8080/v1", "model": "mistral"} {
			applied, err := store.UpdateField(ctx, name, value)
			require.NoError(t, err)
			assert.True(t, applied)
		}
		cur := store.Current()
		assert.Equal(t, "http://localhost:8080/v1", cur.BaseURL)
		assert.Equal(t, "mistral", cur.Model)
		assert.Equal(t, []string{FieldAPIKey}, cur.MissingFields())
	})
}

func TestStore_SetTemperature(t *testing.T) {
	ctx := context.Background()
	store := Load(ctx, storagetest.New(), nil)

	require.NoError(t, store.SetTemperature(ctx, 0))
	assert.Equal(t, 0.0, store.Current().Temperature)
	require.NoError(t, store.SetTemperature(ctx, 1))
	assert.Equal(t, 1.0, store.Current().Temperature)

	for _, bad := range []float64{-0.1, 1.01, math.NaN()} {
		err := store.SetTemperature(ctx, bad)
		require.Error(t, err)
		assert.Equal(t, sherrors.ErrValidation, sherrors.KindOf(err))
	}
	assert.Equal(t, 1.0, store.Current().Temperature)
}

func TestStore_PersistFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New()
	store := Load(ctx, kv, nil)
	kv.FailPut = errors.New("read-only filesystem")

	err := store.SetVariant(ctx, ProviderOpenAI)
	require.Error(t, err)
	assert.Equal(t, sherrors.ErrStorage, sherrors.KindOf(err))
	assert.Equal(t, Default(), store.Current())
}

func TestSettings_RequiredFields(t *testing.T) {
	gemini := Default()
	assert.Empty(t, gemini.RequiredFields())
	assert.Empty(t, gemini.MissingFields())

	openai := ForProvider(ProviderOpenAI, 0.5)
	openai.BaseURL = "  "
	assert.Equal(t, []string{FieldAPIKey, FieldBaseURL}, openai.MissingFields())
}

func TestSettings_Redacted(t *testing.T) {
	s := Settings{Provider: ProviderGemini, APIKey: "secret-key-1234"}
	assert.Equal(t, "***********1234", s.Redacted().APIKey)
	assert.Equal(t, "secret-key-1234", s.APIKey)

	short := Settings{APIKey: "abc"}
	assert.Equal(t, "***", short.Redacted().APIKey)
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("OpenAI-Compatible")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p)

	_, err = ParseProvider("")
	assert.Error(t, err)
}
