// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Package envloader loads process environment variables straight into the
// fields of a Go struct, via the `env` and `envDefault` tags.
//
// Overview:
// envloader covers this module's process configuration surface (spec §10.3):
// RJS_DB_DIR, RJSERVER_LOG, and the metrics flags, loaded once at process
// start into a typed struct rather than scattered os.Getenv calls. It uses
// reflection to walk the config struct and map each tagged field, including
// nested structs and pointers to structs.
//
// Features:
//   - Tag mapping: `env:"VAR_NAME"` names the environment variable.
//   - Defaults: `envDefault:"value"` is used when the variable is unset.
//   - Nesting: nested structs and pointers to structs are processed recursively.
//   - Typed errors: invalid configs or type conversions return concrete error types.
//
// Basic usage:
//
//	type Config struct {
//	    DBDir    string `env:"RJS_DB_DIR" envDefault:"./data"`
//	    LogLevel string `env:"RJSERVER_LOG" envDefault:"info"`
//	}
//
//	var cfg Config
//	if err := envloader.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Load requires a pointer to the config struct; environment variables must
// already be set in the process environment before Load runs.
package envloader
