// Package sysinfo reports the CPU features relevant to wide-multiply and
// carry-chain performance, for inclusion in Montgomery context diagnostics.
// It does not change arithmetic behavior; every code path in this module
// runs identically regardless of what sysinfo reports.
package sysinfo

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"
)

// Summary returns a short, human-readable description of the features
// this process's CPU exposes that are relevant to big-integer arithmetic
// (ADX/BMI2 carry-chain instructions, AVX2 width).
func Summary() string {
	return fmt.Sprintf("%s adx=%v bmi2=%v avx2=%v", cpuid.CPU.BrandName,
		cpuid.CPU.Supports(cpuid.ADX), cpuid.CPU.Supports(cpuid.BMI2), cpuid.CPU.Supports(cpuid.AVX2))
}
