package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_DefinesTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"users", "resumes", "resume_generations", "job_descriptions"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestDefaultConnectOptions(t *testing.T) {
	opts := DefaultConnectOptions()
	assert.Equal(t, "db", opts.Retry.Label)
	assert.Equal(t, 3, opts.Retry.MaxRetries)
}

func TestStringArray_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     interface{}
		want    StringArray
		wantErr bool
	}{
		{"nil", nil, StringArray{}, false},
		{"bytes", []byte(`["go","sql"]`), StringArray{"go", "sql"}, false},
		{"string", `["aws"]`, StringArray{"aws"}, false},
		{"bad type", 42, nil, true},
		{"bad json", []byte(`{`), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a StringArray
			err := a.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestStringArray_Value(t *testing.T) {
	v, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	v, err = StringArray{"go"}.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte(`["go"]`), v)
}
