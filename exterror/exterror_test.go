/*

SPDX-Copyright: Copyright (c) the gitgate contributors
SPDX-License-Identifier: Apache-2.0
Copyright 2018 the gitgate contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and limitations under the License.

*/
package exterror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/mspiegel/go-multierror"
)

func TestConvertPassthrough(t *testing.T) {
	e := Forbidden(errors.New("nope"))
	if Convert(e).Status != http.StatusForbidden {
		t.Error("ExtError should convert to itself")
	}
}

func TestConvertPromotion(t *testing.T) {
	e := Convert(errors.New("boom"))
	if e.Status != http.StatusInternalServerError {
		t.Error("Plain errors should promote to 500")
	}
}

func TestConvertMultiEqual(t *testing.T) {
	var errs error
	errs = multierror.Append(errs, NotFound(errors.New("a")))
	errs = multierror.Append(errs, NotFound(errors.New("b")))
	if Convert(errs).Status != http.StatusNotFound {
		t.Error("Uniform statuses should be preserved")
	}
}

func TestConvertMultiMixedClientErrors(t *testing.T) {
	var errs error
	errs = multierror.Append(errs, NotFound(errors.New("a")))
	errs = multierror.Append(errs, Forbidden(errors.New("b")))
	if Convert(errs).Status != http.StatusBadRequest {
		t.Error("Mixed 4xx statuses should collapse to 400")
	}
}

func TestAppendKeepsStatus(t *testing.T) {
	err := Append(Unauthorized(errors.New("must authenticate")), "upload-pack denied")
	ext, ok := err.(ExtError)
	if !ok {
		t.Fatal("Append should preserve the ExtError type")
	}
	if ext.Status != http.StatusUnauthorized {
		t.Error("Append should preserve the status")
	}
	if ext.Error() != "upload-pack denied. must authenticate" {
		t.Errorf("Unexpected message %q", ext.Error())
	}
}
