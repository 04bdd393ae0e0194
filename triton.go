// triton.go: module version marker
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

// Version identifies the triton module.
const Version = "v0.1.0-dev"
