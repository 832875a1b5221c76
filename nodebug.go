// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

//go:build !debug

package bdd

const _DEBUG bool = false
