/*
   Copyright 2026 The MooseX-Extreme Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package constraint

import (
	"fmt"
	"strings"

	bsemver "github.com/blang/semver/v4"
)

// SemVer is a coercing constraint accepting strings that are valid
// Semantic Versioning 2.0.0 versions (https://semver.org), as parsed by
// the blang/semver library.
//
// The declared coercion normalizes friendly inputs into canonical form
// before the check runs: surrounding whitespace is trimmed and a single
// leading "v" or "V" (the common Git-tag spelling) is stripped, then the
// remainder is parsed and re-rendered canonically. A class can therefore
// declare
//
//	Param("api_version", Isa(constraint.SemVer))
//
// and accept " v1.2.3 " from a caller while storing "1.2.3".
//
// Non-string values fail the check; no coercion from numeric types is
// attempted, since "1.2" as a float has already lost the information a
// version needs.
var SemVer = NewCoercing("SemVer", isSemVer, coerceSemVer)

func isSemVer(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, err := bsemver.Parse(s)
	return err == nil
}

func coerceSemVer(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("SemVer coercion requires a string, got %s", RenderValue(v))
	}

	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "v"), "V")

	bv, err := bsemver.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("SemVer coercion: %q is not a semantic version: %w", s, err)
	}
	return bv.String(), nil
}
