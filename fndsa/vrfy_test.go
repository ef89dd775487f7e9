package fndsa_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa"
	"github.com/benjivesterby/go-fn-dsa-fverify/fndsa/fndsatest"
)

var allParams = []*fndsa.Params{fndsa.Falcon512, fndsa.Falcon1024}

func makeStream(t testing.TB, p *fndsa.Params, seed string, numValid, numInvalid int) []fndsatest.Item {
	t.Helper()
	rng := fndsatest.NewReader([]byte(seed + p.Name))
	items, err := fndsatest.GenerateStream(p, rng, numValid, numInvalid, true)
	if err != nil {
		t.Fatal(err)
	}
	return items
}

func expand(t testing.TB, it fndsatest.Item) *fndsa.ExpandedSignature {
	t.Helper()
	es, err := fndsa.NewExpandedSignature(it.Message, it.Signature, it.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	return es
}

func TestVerifyZeroMessage(t *testing.T) {
	for _, p := range allParams {
		msg := make([]byte, 32)
		rng := fndsatest.NewReader([]byte("zero message " + p.Name))
		pk, sig, err := fndsatest.Forge(p, msg, rng)
		if err != nil {
			t.Fatal(err)
		}
		ok, err := fndsa.Verify(msg, sig, pk)
		if err != nil || !ok {
			t.Fatalf("%s: valid signature rejected (err=%v)", p, err)
		}
		es, err := fndsa.NewExpandedSignature(msg, sig, pk)
		if err != nil {
			t.Fatal(err)
		}
		sampler := fndsa.NewIndexSampler([]byte("e2e"))
		for k := 0; k < 100; k++ {
			if !fndsa.FastFullVerify(msg, es, pk, sampler.Sample(p.N, 8)) {
				t.Fatalf("%s: tiered verification rejected a valid signature", p)
			}
		}

		// Same message, signed under an unrelated key.
		_, sig2, err := fndsatest.Forge(p, msg, rng)
		if err != nil {
			t.Fatal(err)
		}
		ok, err = fndsa.Verify(msg, sig2, pk)
		if err != nil || ok {
			t.Fatalf("%s: foreign signature accepted (err=%v)", p, err)
		}
		es2, err := fndsa.NewExpandedSignature(msg, sig2, pk)
		if err != nil {
			t.Fatal(err)
		}
		// s1 is then close to uniform modulo q. With 8 indices the fast
		// check lets through about 0.15% of such signatures for
		// Falcon-512 and 2.5% for Falcon-1024.
		rejected := 0
		for k := 0; k < 1000; k++ {
			if !fndsa.FastVerify(msg, es2, pk, sampler.Sample(p.N, 8)) {
				rejected++
			}
			if fndsa.FastFullVerify(msg, es2, pk, sampler.Sample(p.N, 8)) {
				t.Fatalf("%s: tiered verification accepted a foreign signature", p)
			}
		}
		t.Logf("%s: fast rejection rate %.1f%%", p, float64(rejected)/10)
		if rejected < 900 {
			t.Fatalf("%s: fast check rejected only %d/1000", p, rejected)
		}
	}
}

func TestCrossKey(t *testing.T) {
	for _, p := range allParams {
		items := makeStream(t, p, "cross key", 33, 0)
		pairs, accepted := 0, 0
		for i := range items {
			for j := range items {
				ok, err := fndsa.Verify(items[i].Message, items[i].Signature, items[j].PublicKey)
				if err != nil {
					t.Fatal(err)
				}
				if i == j {
					if !ok {
						t.Fatalf("%s: item %d rejected under its own key", p, i)
					}
					continue
				}
				pairs++
				if ok {
					accepted++
				}
			}
		}
		if pairs < 1000 || accepted != 0 {
			t.Fatalf("%s: %d false accepts over %d pairs", p, accepted, pairs)
		}
	}
}

func TestTieringSoundness(t *testing.T) {
	for _, p := range allParams {
		items := makeStream(t, p, "tiering", 20, 20)
		sampler := fndsa.NewIndexSampler([]byte("tiering"))
		all := make([]int, p.N)
		for i := range all {
			all[i] = i
		}
		for k, it := range items {
			es := expand(t, it)
			full := fndsa.VerifyExpanded(it.Message, es, it.PublicKey)
			if full != it.Valid {
				t.Fatalf("%s: item %d: full verification returned %v", p, k, full)
			}
			for _, size := range []int{0, 1, 2, 8, 16, 64, p.N, 2 * p.N} {
				idx := sampler.Sample(p.N, size)
				if fndsa.FastFullVerify(it.Message, es, it.PublicKey, idx) != full {
					t.Fatalf("%s: item %d: tiered result differs (%d indices)", p, k, size)
				}
				if it.Valid && !fndsa.FastVerify(it.Message, es, it.PublicKey, idx) {
					t.Fatalf("%s: item %d: fast false negative (%d indices)", p, k, size)
				}
			}
			if fndsa.FastVerify(it.Message, es, it.PublicKey, all) != full {
				t.Fatalf("%s: item %d: fast check over all indices differs", p, k)
			}
		}
	}
}

// Decompose x into a sum of squares of values no larger than q/2.
func squares(x uint64) []int16 {
	var r []int16
	for x > 0 {
		v := uint64(6144)
		for v*v > x {
			v--
		}
		r = append(r, int16(v))
		x -= v * v
	}
	return r
}

func TestNormBoundary(t *testing.T) {
	for _, p := range allParams {
		msg := []byte("boundary")
		salt := make([]byte, fndsa.SaltSize)
		s2 := make([]int16, p.N)
		s2[0] = 1
		for _, delta := range []uint64{0, 1} {
			s1 := make([]int16, p.N)
			copy(s1, squares(p.Beta2-1))
			if delta != 0 {
				s1[p.N-1] = 1
			}
			pk, sig, err := fndsatest.ForgeWith(p, msg, salt, s1, s2)
			if err != nil {
				t.Fatal(err)
			}
			ok, err := fndsa.Verify(msg, sig, pk)
			if err != nil {
				t.Fatal(err)
			}
			if ok != (delta == 0) {
				t.Fatalf("%s: squared norm Beta2+%d: got %v", p, delta, ok)
			}
			es, _ := fndsa.NewExpandedSignature(msg, sig, pk)
			if delta == 0 && !fndsa.FastVerify(msg, es, pk, []int{0, 1, 2, 3, 4, 5, 0}) {
				t.Fatalf("%s: fast check rejected a signature on the bound", p)
			}
		}
	}
}

func TestBinding(t *testing.T) {
	p := fndsa.Falcon512
	items := makeStream(t, p, "binding", 2, 0)
	a, b := items[0], items[1]
	es := expand(t, a)
	idx := []int{1, 2, 3}
	if !fndsa.VerifyExpanded(a.Message, es, a.PublicKey) {
		t.Fatalf("valid signature rejected")
	}
	if fndsa.VerifyExpanded(b.Message, es, a.PublicKey) ||
		fndsa.FastVerify(b.Message, es, a.PublicKey, idx) ||
		fndsa.FastFullVerify(b.Message, es, a.PublicKey, idx) {
		t.Fatalf("expanded signature accepted for another message")
	}
	if fndsa.VerifyExpanded(a.Message, es, b.PublicKey) ||
		fndsa.FastVerify(a.Message, es, b.PublicKey, idx) ||
		fndsa.FastFullVerify(a.Message, es, b.PublicKey, idx) {
		t.Fatalf("expanded signature accepted for another key")
	}
}

func TestDeterminism(t *testing.T) {
	for _, p := range allParams {
		for _, it := range makeStream(t, p, "determinism", 3, 3) {
			es1 := expand(t, it)
			es2 := expand(t, it)
			t1, t2 := es1.Product(), es2.Product()
			c1, c2 := es1.Challenge(), es2.Challenge()
			for i := 0; i < p.N; i++ {
				if t1[i] != t2[i] || c1[i] != c2[i] {
					t.Fatalf("%s: expansion is not deterministic", p)
				}
			}
			idx := fndsa.NewIndexSampler([]byte("det")).Sample(p.N, 8)
			if fndsa.FastVerify(it.Message, es1, it.PublicKey, idx) !=
				fndsa.FastVerify(it.Message, es2, it.PublicKey, idx) ||
				fndsa.VerifyExpanded(it.Message, es1, it.PublicKey) !=
					fndsa.VerifyExpanded(it.Message, es2, it.PublicKey) {
				t.Fatalf("%s: verdicts differ", p)
			}
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	p := fndsa.Falcon512
	it := makeStream(t, p, "decode", 1, 0)[0]
	bad := &fndsa.Signature{
		Salt: it.Signature.Salt,
		S2:   append(append([]byte(nil), it.Signature.S2...), 0x01),
	}
	for k := 0; k < 3; k++ {
		ok, err := fndsa.Verify(it.Message, bad, it.PublicKey)
		if ok || !errors.Is(err, fndsa.ErrMalformed) {
			t.Fatalf("non-zero padding: got (%v, %v)", ok, err)
		}
		es, err := fndsa.NewExpandedSignature(it.Message, bad, it.PublicKey)
		var de *fndsa.DecodeError
		if es != nil || !errors.As(err, &de) || de.Object != "s2" {
			t.Fatalf("non-zero padding: got (%v, %v)", es, err)
		}
	}

	short := &fndsa.Signature{Salt: it.Signature.Salt[:20], S2: it.Signature.S2}
	if _, err := fndsa.Verify(it.Message, short, it.PublicKey); !errors.Is(err, fndsa.ErrMalformed) {
		t.Fatalf("short salt: got %v", err)
	}
}

func TestCorruptedSignatures(t *testing.T) {
	p := fndsa.Falcon512
	it := makeStream(t, p, "corrupt", 1, 0)[0]
	enc := it.Signature.Encode(p)
	malformed := 0
	for pos := uint(0); pos < uint(len(enc))*8; pos += 7 {
		sig, err := fndsa.DecodeSignature(p, fndsatest.Corrupt(enc, pos))
		if err != nil {
			malformed++
			continue
		}
		ok, err := fndsa.Verify(it.Message, sig, it.PublicKey)
		if ok {
			t.Fatalf("signature with bit %d flipped accepted", pos)
		}
		if err != nil {
			malformed++
		}
	}
	t.Logf("%d corrupted signatures were malformed", malformed)
}

func TestPaddedSignature(t *testing.T) {
	for _, p := range allParams {
		it := makeStream(t, p, "padded", 1, 0)[0]
		enc := it.Signature.Pad(p).Encode(p)
		if len(enc) != p.MaxSignatureSize() {
			t.Fatalf("%s: padded size %d", p, len(enc))
		}
		sig, err := fndsa.DecodeSignature(p, enc)
		if err != nil {
			t.Fatal(err)
		}
		ok, err := fndsa.Verify(it.Message, sig, it.PublicKey)
		if err != nil || !ok {
			t.Fatalf("%s: padded signature rejected (err=%v)", p, err)
		}
	}
}

// Recompute s1 = c - s2*h with the schoolbook product and check the
// norm directly.
func TestVerifyExpandedSchoolbook(t *testing.T) {
	for _, p := range allParams {
		for k, it := range makeStream(t, p, "schoolbook", 2, 2) {
			es := expand(t, it)
			s2 := es.S2()
			tt := p.ConvolveSchoolbook(p.Reduce(s2), it.PublicKey.Coefficients())
			prod := es.Product()
			c := es.Challenge()
			norm := uint64(0)
			for i := 0; i < p.N; i++ {
				if tt[i] != prod[i] {
					t.Fatalf("%s: item %d: product differs at %d", p, k, i)
				}
				x := (int32(c[i]) - int32(tt[i]) + fndsa.Modulus) % fndsa.Modulus
				if x > fndsa.Modulus/2 {
					x -= fndsa.Modulus
				}
				norm += uint64(x * x)
				norm += uint64(int32(s2[i]) * int32(s2[i]))
			}
			if fndsa.VerifyExpanded(it.Message, es, it.PublicKey) != (norm <= p.Beta2) {
				t.Fatalf("%s: item %d: wrong verdict for squared norm %d", p, k, norm)
			}
		}
	}
}

func TestFastVerifyIndexPanics(t *testing.T) {
	p := fndsa.Falcon512
	it := makeStream(t, p, "panic", 1, 0)[0]
	es := expand(t, it)
	for _, idx := range [][]int{{0, -1}, {0, p.N}, {-1}, {p.N}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("no panic for indices %v", idx)
				}
			}()
			fndsa.FastVerify(it.Message, es, it.PublicKey, idx)
		}()
	}
}

func TestFastVerifyRepeatedIndices(t *testing.T) {
	// Two coefficients that each fit the budget, but not together.
	p := fndsa.Falcon1024
	msg := []byte("repeated")
	salt := make([]byte, fndsa.SaltSize)
	s1 := make([]int16, p.N)
	s2 := make([]int16, p.N)
	s2[0] = 1
	s1[5] = 6000
	s1[p.N-1] = -6000
	pk, sig, err := fndsatest.ForgeWith(p, msg, salt, s1, s2)
	if err != nil {
		t.Fatal(err)
	}
	es, err := fndsa.NewExpandedSignature(msg, sig, pk)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		idx  []int
		want bool
	}{
		{[]int{p.N - 1}, true},
		{[]int{p.N - 1, p.N - 1, p.N - 1}, true},
		{[]int{5, 0, 5}, true},
		{[]int{p.N - 1, 5}, false},
		{[]int{5, 7, 5, p.N - 1}, false},
	}
	for _, tt := range tests {
		if got := fndsa.FastVerify(msg, es, pk, tt.idx); got != tt.want {
			t.Fatalf("indices %v: got %v, want %v", tt.idx, got, tt.want)
		}
	}
	if fndsa.VerifyExpanded(msg, es, pk) {
		t.Fatalf("signature over the bound accepted")
	}
}

func TestTieredVerify(t *testing.T) {
	p := fndsa.Falcon512
	items := makeStream(t, p, "tiered", 1, 1)
	good, bad := items[0], items[1]
	if bad.Valid {
		good, bad = bad, good
	}
	esGood := expand(t, good)
	esBad := expand(t, bad)
	all := make([]int, p.N)
	for i := range all {
		all[i] = i
	}
	tests := []struct {
		name      string
		msg       []byte
		es        *fndsa.ExpandedSignature
		pk        *fndsa.PublicKey
		idx       []int
		valid     bool
		fastFails bool
	}{
		{"valid", good.Message, esGood, good.PublicKey, all, true, false},
		{"fast rejection", bad.Message, esBad, bad.PublicKey, all, false, true},
		{"full rejection", bad.Message, esBad, bad.PublicKey, nil, false, false},
		{"other message", bad.Message, esGood, good.PublicKey, nil, false, true},
		{"other key", good.Message, esGood, bad.PublicKey, nil, false, true},
	}
	for _, tt := range tests {
		valid, fast := fndsa.TieredVerify(tt.msg, tt.es, tt.pk, tt.idx)
		if valid != tt.valid || fast != tt.fastFails {
			t.Fatalf("%s: got (%v, %v)", tt.name, valid, fast)
		}
		if fndsa.FastFullVerify(tt.msg, tt.es, tt.pk, tt.idx) != valid {
			t.Fatalf("%s: FastFullVerify disagrees", tt.name)
		}
	}
}

func ExampleFastFullVerify() {
	p := fndsa.Falcon512
	msg := make([]byte, 32)
	pk, sig, _ := fndsatest.Forge(p, msg, fndsatest.NewReader([]byte("example")))

	es, err := fndsa.NewExpandedSignature(msg, sig, pk)
	if err != nil {
		fmt.Println("malformed:", err)
		return
	}
	sampler := fndsa.NewIndexSampler([]byte("per-worker seed"))
	fmt.Println(fndsa.FastFullVerify(msg, es, pk, sampler.Sample(p.N, 8)))
	// Output: true
}

func BenchmarkExpand512(b *testing.B) {
	bench_expand_inner(b, fndsa.Falcon512)
}

func BenchmarkExpand1024(b *testing.B) {
	bench_expand_inner(b, fndsa.Falcon1024)
}

func bench_expand_inner(b *testing.B, p *fndsa.Params) {
	it := makeStream(b, p, "bench", 1, 0)[0]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fndsa.NewExpandedSignature(it.Message, it.Signature, it.PublicKey)
	}
}

func BenchmarkVerifyExpanded512(b *testing.B) {
	bench_tiers_inner(b, fndsa.Falcon512, 0)
}

func BenchmarkVerifyExpanded1024(b *testing.B) {
	bench_tiers_inner(b, fndsa.Falcon1024, 0)
}

func BenchmarkFastFullVerify512(b *testing.B) {
	bench_tiers_inner(b, fndsa.Falcon512, 8)
}

func BenchmarkFastFullVerify1024(b *testing.B) {
	bench_tiers_inner(b, fndsa.Falcon1024, 8)
}

// Majority-invalid stream (90% invalid); k = 0 means full verification
// only.
func bench_tiers_inner(b *testing.B, p *fndsa.Params, k int) {
	items := makeStream(b, p, "bench", 5, 45)
	ess := make([]*fndsa.ExpandedSignature, len(items))
	for i, it := range items {
		ess[i] = expand(b, it)
	}
	sampler := fndsa.NewIndexSampler([]byte("bench"))
	idx := make([]int, k)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := i % len(items)
		if k == 0 {
			fndsa.VerifyExpanded(items[j].Message, ess[j], items[j].PublicKey)
		} else {
			sampler.SampleInto(idx, p.N)
			fndsa.FastFullVerify(items[j].Message, ess[j], items[j].PublicKey, idx)
		}
	}
}
