package fuzztests

import "testing"

const maxSeedBytes = 64 << 10 // 64 KiB

const maxFuzzInput = 1 << 16 // 64 KiB

// nativeDecl is the stdlib declaration the checker seeds call through.
const nativeDecl = "#[builtin(to_le_bits)] pub fn to_le_bits<let N: u32>(x: Field) -> [u1; N] {}\n"

var languageSeeds = []string{
	"",
	"fn main() {}\n",
	"fn main(x: Field) -> Field { x }\n",
	"use std::to_le_bits;\nfn main(x: Field) { let bits: [u1; 100] = to_le_bits(x); }\n",
	"use std::to_le_bits;\nfn main(x: Field) { let bits = to_le_bits::<8>(x); }\n",
	"fn grow<let N: u32>(xs: [Field; N]) -> [Field; N + 1] { [xs[0]; N + 1] }\n",
	"fn pick<T>(a: T, b: T) -> T { a }\nfn main() { let v: u8 = pick(1, 2); }\n",
	"mod inner {\n    pub fn f() -> bool { true }\n}\nuse inner::f as g;\n",
	"#[foreign(sha256)] fn sha256<let N: u32>(input: [u8; N]) -> [u8; 32];\n",
	"#[oracle(get)] unconstrained fn get() -> Field;\n",
	"fn main() { let xs = []; }\n",
	"fn f( {}\nfn g() -> [u8; ] {}\n",
	"fn h<let N: u32>(x: [u8; N * 2 - 1]) {}\n",
	"#[builtin(",
	"]]]]\nfn ok() {}\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return src
	}
	return src[:maxSeedBytes]
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
