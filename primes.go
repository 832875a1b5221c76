// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package bdd

import "math/big"

// Table and cache sizes are primes, which gives a better dispersion for the
// modulo in hash functions.

var smallPrimes = [...]int{3, 5, 7, 11, 13}

func isPrime(src int) bool {
	if src < 2 {
		return false
	}
	for _, p := range smallPrimes {
		if src != p && src%p == 0 {
			return false
		}
	}
	// ProbablyPrime is 100% accurate for inputs less than 2⁶⁴.
	return big.NewInt(int64(src)).ProbablyPrime(0)
}

// bdd_prime_gte returns the smallest odd prime greater than or equal to src.
func bdd_prime_gte(src int) int {
	if src < 3 {
		return 3
	}
	if src%2 == 0 {
		src++
	}
	for !isPrime(src) {
		src += 2
	}
	return src
}

// bdd_prime_lte returns the largest odd prime less than or equal to src, or 3
// if there is none.
func bdd_prime_lte(src int) int {
	if src <= 3 {
		return 3
	}
	if src%2 == 0 {
		src--
	}
	for !isPrime(src) {
		src -= 2
	}
	return src
}
