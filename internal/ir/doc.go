// Package ir provides the constrained value tree that board configurations are
// serialized into, plus its canonical JSON encoding and content hashes.
//
// This package imports nothing internal; boardcfg, store and cli build on it.
//
// Key constraints:
//   - no float values, numbers are int64 (field ids are JIRA longs)
//   - no null values, absent data is an absent key
//   - canonical output follows RFC 8785 (sorted keys, NFC strings, no HTML escaping)
package ir
