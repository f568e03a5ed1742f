// Copyright 2025 Zintix Labs
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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/logiclab/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.Wrap(context.DeadlineExceeded, "x"), http.StatusGatewayTimeout},
		{context.Canceled, http.StatusRequestTimeout},
		{errs.Wrap(errs.ErrNotFound, "load progress"), http.StatusNotFound},
		{errs.ErrNoHintsLeft, http.StatusBadRequest},
		{errs.NewWarn("bad"), http.StatusBadRequest},
		{errs.NewFatal("db down"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.want, StatusCode(c.err), "%v", c.err)
	}
}

func TestErrsHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Errs(rec, errs.Wrap(errors.New("disk I/O error at /var/db"), "save progress"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var b Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	require.Equal(t, "Internal Server Error", b.Error)

	rec = httptest.NewRecorder()
	Errs(rec, errs.WrapWithExtra(errs.ErrNoHintsLeft, "hint", "date=2024-01-01"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	require.Equal(t, "hint: no hints left", b.Error)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
