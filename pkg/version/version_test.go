// Copyright (c) 2025, AgroSense Authors.  All rights reserved.
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

package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr error
	}{
		{"1", Version{1, 0, 0}, nil},
		{"v1.2", Version{1, 2, 0}, nil},
		{"1.2.3", Version{1, 2, 3}, nil},
		{" v0.0.7 ", Version{0, 0, 7}, nil},
		{"", Version{}, ErrEmptyVersion},
		{"v", Version{}, ErrEmptyVersion},
		{"1.2.3.4", Version{}, ErrTooManyComponents},
		{"1.x", Version{}, ErrNonNumeric},
		{"1..2", Version{}, ErrNonNumeric},
		{"1.-2", Version{}, ErrNonNumeric},
		{"+1", Version{}, ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1", "1.0.0", 0},
		{"1.2", "1.10", -1},
		{"2.0", "1.9.9", 1},
		{"1.0.1", "1.0.0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseVersion(tt.a).Compare(MustParseVersion(tt.b)))
		})
	}
}

func TestCompatibleWith(t *testing.T) {
	supported := MustParseVersion("1.3")

	assert.True(t, MustParseVersion("1.0").CompatibleWith(supported))
	assert.True(t, MustParseVersion("1.3.0").CompatibleWith(supported))
	assert.False(t, MustParseVersion("1.4").CompatibleWith(supported))
	assert.False(t, MustParseVersion("2.0").CompatibleWith(supported))
	assert.False(t, MustParseVersion("0.9").CompatibleWith(supported))
}

func TestMustParseVersionPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseVersion("not-a-version") })
}

func TestString(t *testing.T) {
	assert.Equal(t, "1.2.0", MustParseVersion("v1.2").String())
}

func FuzzParseVersion(f *testing.F) {
	for _, seed := range []string{"1", "v1.2", "1.2.3", "", ".", "1..2", "v", "-1", "1.2.3.4"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		v, err := ParseVersion(s)
		if err != nil {
			return
		}
		if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
			t.Errorf("ParseVersion(%q) produced negative component: %+v", s, v)
		}
		again, err := ParseVersion(v.String())
		if err != nil || again != v {
			t.Errorf("round trip of %q failed: %+v vs %+v (%v)", s, v, again, err)
		}
	})
}
