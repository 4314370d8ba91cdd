package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const columnsJSON = `["Age","RestingBP","Cholesterol","FastingBS","MaxHR","Oldpeak",
"Sex_M","ChestPainType_ATA","ChestPainType_NAP","ChestPainType_TA",
"RestingECG_Normal","RestingECG_ST","ExerciseAngina_Y","ST_Slope_Flat","ST_Slope_Up"]`

func zeros(n int) string {
	return "[" + strings.TrimSuffix(strings.Repeat("0,", n), ",") + "]"
}

func ones(n int) string {
	return "[" + strings.TrimSuffix(strings.Repeat("1,", n), ",") + "]"
}

func writeArtifacts(t *testing.T, dir string, dim int) {
	t.Helper()
	model := `{"type":"logistic","classes":[0,1],"coef":` + ones(dim) + `,"intercept":-1}`
	scaler := `{"type":"standard","mean":` + zeros(dim) + `,"scale":` + ones(dim) + `}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultModelFile), []byte(model), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultScalerFile), []byte(scaler), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultColumnsFile), []byte(columnsJSON), 0o600))
}

func TestLoader_Loads(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir, 15)

	loader := NewLoader(DefaultFiles(dir), nil)

	status, _ := loader.Status()
	assert.Equal(t, StatusPending, status)

	bundle, err := loader.Load()
	require.NoError(t, err)
	assert.Len(t, bundle.Columns, 15)
	assert.Equal(t, 15, bundle.Schema.Len())
	assert.NotNil(t, bundle.Encoder)
	assert.False(t, bundle.LoadedAt.IsZero())

	status, reason := loader.Status()
	assert.Equal(t, StatusLoaded, status)
	assert.NoError(t, reason)
}

func TestLoader_CachesResult(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir, 15)
	loader := NewLoader(DefaultFiles(dir), nil)

	first, err := loader.Load()
	require.NoError(t, err)

	// Removing the files after the first load does not matter.
	require.NoError(t, os.Remove(filepath.Join(dir, DefaultModelFile)))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := loader.Load()
			assert.NoError(t, err)
			assert.Same(t, first, again)
		}()
	}
	wg.Wait()
}

func TestLoader_MissingFiles(t *testing.T) {
	for _, name := range []string{DefaultModelFile, DefaultScalerFile, DefaultColumnsFile} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeArtifacts(t, dir, 15)
			require.NoError(t, os.Remove(filepath.Join(dir, name)))

			loader := NewLoader(DefaultFiles(dir), nil)
			bundle, err := loader.Load()
			assert.Nil(t, bundle)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnavailable))
			assert.Contains(t, err.Error(), name)

			status, reason := loader.Status()
			assert.Equal(t, StatusUnavailable, status)
			assert.Equal(t, err, reason)

			// The failure is cached even if the file appears later.
			writeArtifacts(t, dir, 15)
			_, err = loader.Load()
			assert.True(t, errors.Is(err, ErrUnavailable))
		})
	}
}

func TestLoader_ListsEveryMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := NewLoader(DefaultFiles(dir), nil).Load()
	require.Error(t, err)
	for _, name := range []string{DefaultModelFile, DefaultScalerFile, DefaultColumnsFile} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestLoader_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, dir string)
		message string
	}{
		{
			name: "undecodable model",
			mutate: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultModelFile), []byte("\x80\x04pickle"), 0o600))
			},
			message: DefaultModelFile,
		},
		{
			name: "scaler dimension",
			mutate: func(t *testing.T, dir string) {
				scaler := `{"type":"standard","mean":` + zeros(14) + `,"scale":` + ones(14) + `}`
				require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultScalerFile), []byte(scaler), 0o600))
			},
			message: "scaler expects 14",
		},
		{
			name: "classifier dimension",
			mutate: func(t *testing.T, dir string) {
				model := `{"type":"logistic","classes":[0,1],"coef":` + ones(16) + `}`
				require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultModelFile), []byte(model), 0o600))
			},
			message: "classifier expects 16",
		},
		{
			name: "unknown column",
			mutate: func(t *testing.T, dir string) {
				cols := strings.Replace(columnsJSON, `"ST_Slope_Up"`, `"Smoker"`, 1)
				require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultColumnsFile), []byte(cols), 0o600))
			},
			message: "Smoker",
		},
		{
			name: "scaler feature names",
			mutate: func(t *testing.T, dir string) {
				names := strings.Replace(columnsJSON, `"Age","RestingBP"`, `"RestingBP","Age"`, 1)
				scaler := `{"type":"standard","mean":` + zeros(15) + `,"scale":` + ones(15) + `,"feature_names":` + names + `}`
				require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultScalerFile), []byte(scaler), 0o600))
			},
			message: "scaler feature 0",
		},
		{
			name: "non binary labels",
			mutate: func(t *testing.T, dir string) {
				model := `{"type":"logistic","classes":[1,2],"coef":` + ones(15) + `}`
				require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultModelFile), []byte(model), 0o600))
			},
			message: "[0 1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeArtifacts(t, dir, 15)
			tt.mutate(t, dir)

			loader := NewLoader(DefaultFiles(dir), nil)
			_, err := loader.Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorrupt))
			assert.False(t, errors.Is(err, ErrUnavailable))
			assert.Contains(t, err.Error(), tt.message)

			status, _ := loader.Status()
			assert.Equal(t, StatusCorrupt, status)
		})
	}
}
