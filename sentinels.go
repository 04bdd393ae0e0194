// sentinels.go: distinguished marker values for Dict operations
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

// The distilled design calls for NotFound/Any/Cancel sentinel pointer
// values that can be passed wherever a V is expected, distinguished
// from real values by identity. That idiom assumes values flow through
// the engine as a dynamically-typed handle (the source's Python
// objects); Triton's V is a `comparable` type parameter used directly
// in CAS equality checks (see DESIGN.md), so smuggling a *sentinel
// through a V-typed parameter would require widening every signature
// to `any` and type-switching on the way in, defeating the point of
// constraining V at all.
//
// Triton gets the same three behaviors through ordinary Go idiom
// instead:
//   - NotFound: Get/GetOrDefault return (V, bool); there is no
//     sentinel value, just a false ok.
//   - Any (unconditional set, skipping the expected-value check):
//     Set/Insert, which never take an expected value, cover this;
//     there is no relaxed-CAS entry point that also wants the
//     expected-value semantics of CompareAndSet.
//   - Cancel (an UpdateBy callback declining to touch a key): the
//     callback returns (V, bool) and a false second value means
//     "leave this entry untouched", exactly mirroring
//     sync.Map.CompareAndSwap's boolean-return convention.
