// Package session persists the portal's access token and user profile in
// encrypted form.
//
// Each value is encrypted with cryptox, serialized as a JSON envelope
// ({"data": ..., "iv": ...}) and written to a storage.Storage slot. Slots are
// namespaced by a scope, a random identifier standing in for one browser
// tab, so several Stores can share a backend without seeing each other.
//
// # Failure policy
//
// Nothing in this package returns a crypto or storage error to the caller
// of Store* or Retrieve*. Writes that fail are logged and dropped; reads of
// an absent, undecryptable or malformed slot all report "no session". A
// corrupted credential and a missing one lead to the same recovery:
// authenticate again.
//
// # Absent values
//
// RetrieveToken reports absence with ok == false. RetrieveUserInfo returns
// the sentinel UserInfo{"userDetails": nil} so existing callers can read
// fields without a presence check; LookupUserInfo is the (value, ok) form.
package session
