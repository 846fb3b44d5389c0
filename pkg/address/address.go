// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package address canonicalizes network address strings so that the session
// snapshot and every identity directory can be joined on the same key.
//
// Normalize trims whitespace, drops a host-length prefix ("/32", "/128"),
// unmaps IPv4-mapped IPv6 addresses and strips trailing ".0" artifacts left by
// spreadsheet round-trips. It is idempotent for every input.
package address

import (
	"net/netip"
	"strings"
)

// artifactSuffix is appended when an address column is read back as a float.
const artifactSuffix = ".0"

// Normalize returns the canonical form of addr.
//
// A string that already parses as an IP address is returned in its canonical
// textual form and is never stripped, so "10.0.0.0" stays intact. Any other
// string loses trailing ".0" segments until it either becomes a valid address
// or has no such suffix left.
func Normalize(addr string) string {
	s := addr
	for {
		s = trimHostPrefix(strings.TrimSpace(s))
		if ip, err := netip.ParseAddr(s); err == nil {
			return ip.Unmap().String()
		}
		if !strings.HasSuffix(s, artifactSuffix) {
			return s
		}
		s = strings.TrimSuffix(s, artifactSuffix)
	}
}

// trimHostPrefix drops the prefix length from a single-host CIDR such as the
// "10.0.0.5/32" rendering of a Postgres inet value.
func trimHostPrefix(s string) string {
	p, err := netip.ParsePrefix(s)
	if err != nil || !p.IsSingleIP() {
		return s
	}
	return p.Addr().String()
}

// IsValid reports whether the normalized form of addr is an IP address.
func IsValid(addr string) bool {
	_, err := netip.ParseAddr(Normalize(addr))
	return err == nil
}
