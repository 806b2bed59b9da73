// Copyright 2026 ShipKit HQ
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package version exposes the shipkit build version.
package version

// Version is the shipkit build version. It is set at build time via
// -ldflags "-X github.com/shipkithq/shipkit/pkg/version.Version=<value>"
// and defaults to a development placeholder.
var Version = "dev"
