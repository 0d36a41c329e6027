package optimizer

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"

	"github.com/localvoid/oveo/internal/jsast"
)

// fingerprint hashes an expression's structural shape with xxh3
// (ported from original_source/crates/oveo/src/chunk/dedupe/hash.rs,
// which hashes by resolved symbol identity rather than source text so
// that two differently-named locals bound to the same Ref still
// collide, and two same-named locals bound to different Refs never do).
// A hash match is only ever a dedupe candidate; equalExpr below
// confirms it before two call sites are actually merged.
func fingerprint(e jsast.Expr) uint64 {
	h := xxh3.New()
	writeFingerprint(h, e)
	return h.Sum64()
}

func writeFingerprint(h *xxh3.Hasher, e jsast.Expr) {
	switch d := e.Data.(type) {
	case jsast.EMissing:
		tag(h, 1)
	case jsast.ENull:
		tag(h, 2)
	case jsast.EThis:
		tag(h, 3)
	case jsast.ESuper:
		tag(h, 4)
	case jsast.EBoolean:
		tag(h, 5)
		if d.Value {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case jsast.ENumber:
		tag(h, 6)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(d.Value))
		h.Write(buf[:])
	case jsast.EBigInt:
		tag(h, 7)
		h.Write([]byte(d.Raw))
	case jsast.EString:
		tag(h, 8)
		h.Write([]byte(d.Value))
	case jsast.ERegExp:
		tag(h, 9)
		h.Write([]byte(d.Raw))
	case jsast.EIdentifier:
		tag(h, 10)
		writeRef(h, d.Ref, d.Name)
	case jsast.EArray:
		tag(h, 11)
		writeLen(h, len(d.Items))
		for _, it := range d.Items {
			writeFingerprint(h, it)
		}
	case jsast.EObject:
		tag(h, 12)
		writeLen(h, len(d.Properties))
		for _, p := range d.Properties {
			h.Write([]byte{byte(p.Kind)})
			h.Write([]byte(p.KeyName))
			if p.KeyExpr != nil {
				writeFingerprint(h, *p.KeyExpr)
			}
			if p.Value != nil {
				writeFingerprint(h, *p.Value)
			}
		}
	case jsast.ECall:
		tag(h, 13)
		writeFingerprint(h, d.Callee)
		writeLen(h, len(d.Args))
		for _, a := range d.Args {
			writeFingerprint(h, a)
		}
	case jsast.ENew:
		tag(h, 14)
		writeFingerprint(h, d.Callee)
		writeLen(h, len(d.Args))
		for _, a := range d.Args {
			writeFingerprint(h, a)
		}
	case jsast.EMember:
		tag(h, 15)
		writeFingerprint(h, d.Object)
		h.Write([]byte(d.Name))
	case jsast.EIndex:
		tag(h, 16)
		writeFingerprint(h, d.Object)
		writeFingerprint(h, d.Index)
	case jsast.EConditional:
		tag(h, 17)
		writeFingerprint(h, d.Test)
		writeFingerprint(h, d.Yes)
		writeFingerprint(h, d.No)
	case jsast.EBinary:
		tag(h, 18)
		h.Write([]byte(d.Op))
		writeFingerprint(h, d.Left)
		writeFingerprint(h, d.Right)
	case jsast.EUnary:
		tag(h, 19)
		h.Write([]byte(d.Op))
		writeFingerprint(h, d.Value)
	case jsast.ESequence:
		tag(h, 20)
		writeLen(h, len(d.Exprs))
		for _, it := range d.Exprs {
			writeFingerprint(h, it)
		}
	case jsast.ESpread:
		tag(h, 21)
		writeFingerprint(h, d.Value)
	case jsast.EParenthesized:
		writeFingerprint(h, d.Value)
	case jsast.ETemplate:
		tag(h, 22)
		h.Write([]byte(d.HeadRaw))
		for _, p := range d.Parts {
			h.Write([]byte(p.Raw))
			writeFingerprint(h, p.Expr)
		}
	default:
		// Functions, classes, assignments, updates, await/yield, JSX and
		// TS passthrough nodes all hash to one shared tag, and equalExpr
		// reports them unequal, so they are never merged. That includes
		// the arrow functions and function expressions hoist() lifts and
		// marks as dedupe candidates.
		tag(h, 255)
	}
}

func tag(h *xxh3.Hasher, b byte) { h.Write([]byte{b}) }

func writeLen(h *xxh3.Hasher, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}

func writeRef(h *xxh3.Hasher, ref jsast.Ref, name string) {
	if ref.IsValid() {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(ref.Index)+1)
		h.Write(buf[:])
		return
	}
	h.Write([]byte{0})
	h.Write([]byte(name))
}

// equalExpr confirms a fingerprint collision is a genuine structural
// duplicate, the same way hash.rs's callers always pair its hash with
// an exact equality check before merging.
func equalExpr(a, b jsast.Expr) bool {
	switch ad := a.Data.(type) {
	case jsast.EParenthesized:
		return equalExpr(ad.Value, b)
	}
	if bp, ok := b.Data.(jsast.EParenthesized); ok {
		return equalExpr(a, bp.Value)
	}
	switch ad := a.Data.(type) {
	case jsast.EMissing:
		_, ok := b.Data.(jsast.EMissing)
		return ok
	case jsast.ENull:
		_, ok := b.Data.(jsast.ENull)
		return ok
	case jsast.EThis:
		_, ok := b.Data.(jsast.EThis)
		return ok
	case jsast.ESuper:
		_, ok := b.Data.(jsast.ESuper)
		return ok
	case jsast.EBoolean:
		bd, ok := b.Data.(jsast.EBoolean)
		return ok && ad.Value == bd.Value
	case jsast.ENumber:
		bd, ok := b.Data.(jsast.ENumber)
		return ok && ad.Value == bd.Value
	case jsast.EBigInt:
		bd, ok := b.Data.(jsast.EBigInt)
		return ok && ad.Raw == bd.Raw
	case jsast.EString:
		bd, ok := b.Data.(jsast.EString)
		return ok && ad.Value == bd.Value
	case jsast.ERegExp:
		bd, ok := b.Data.(jsast.ERegExp)
		return ok && ad.Raw == bd.Raw
	case jsast.EIdentifier:
		bd, ok := b.Data.(jsast.EIdentifier)
		if !ok {
			return false
		}
		if ad.Ref.IsValid() || bd.Ref.IsValid() {
			return ad.Ref == bd.Ref
		}
		return ad.Name == bd.Name
	case jsast.EArray:
		bd, ok := b.Data.(jsast.EArray)
		if !ok || len(ad.Items) != len(bd.Items) {
			return false
		}
		for i := range ad.Items {
			if !equalExpr(ad.Items[i], bd.Items[i]) {
				return false
			}
		}
		return true
	case jsast.EObject:
		bd, ok := b.Data.(jsast.EObject)
		if !ok || len(ad.Properties) != len(bd.Properties) {
			return false
		}
		for i := range ad.Properties {
			pa, pb := ad.Properties[i], bd.Properties[i]
			if pa.Kind != pb.Kind || pa.KeyName != pb.KeyName {
				return false
			}
			if (pa.Value == nil) != (pb.Value == nil) {
				return false
			}
			if pa.Value != nil && !equalExpr(*pa.Value, *pb.Value) {
				return false
			}
		}
		return true
	case jsast.ECall:
		bd, ok := b.Data.(jsast.ECall)
		if !ok || len(ad.Args) != len(bd.Args) || !equalExpr(ad.Callee, bd.Callee) {
			return false
		}
		for i := range ad.Args {
			if !equalExpr(ad.Args[i], bd.Args[i]) {
				return false
			}
		}
		return true
	case jsast.ENew:
		bd, ok := b.Data.(jsast.ENew)
		if !ok || len(ad.Args) != len(bd.Args) || !equalExpr(ad.Callee, bd.Callee) {
			return false
		}
		for i := range ad.Args {
			if !equalExpr(ad.Args[i], bd.Args[i]) {
				return false
			}
		}
		return true
	case jsast.EMember:
		bd, ok := b.Data.(jsast.EMember)
		return ok && ad.Name == bd.Name && equalExpr(ad.Object, bd.Object)
	case jsast.EIndex:
		bd, ok := b.Data.(jsast.EIndex)
		return ok && equalExpr(ad.Object, bd.Object) && equalExpr(ad.Index, bd.Index)
	case jsast.EConditional:
		bd, ok := b.Data.(jsast.EConditional)
		return ok && equalExpr(ad.Test, bd.Test) && equalExpr(ad.Yes, bd.Yes) && equalExpr(ad.No, bd.No)
	case jsast.EBinary:
		bd, ok := b.Data.(jsast.EBinary)
		return ok && ad.Op == bd.Op && equalExpr(ad.Left, bd.Left) && equalExpr(ad.Right, bd.Right)
	case jsast.EUnary:
		bd, ok := b.Data.(jsast.EUnary)
		return ok && ad.Op == bd.Op && equalExpr(ad.Value, bd.Value)
	case jsast.ESequence:
		bd, ok := b.Data.(jsast.ESequence)
		if !ok || len(ad.Exprs) != len(bd.Exprs) {
			return false
		}
		for i := range ad.Exprs {
			if !equalExpr(ad.Exprs[i], bd.Exprs[i]) {
				return false
			}
		}
		return true
	case jsast.ESpread:
		bd, ok := b.Data.(jsast.ESpread)
		return ok && equalExpr(ad.Value, bd.Value)
	case jsast.ETemplate:
		bd, ok := b.Data.(jsast.ETemplate)
		if !ok || ad.HeadRaw != bd.HeadRaw || len(ad.Parts) != len(bd.Parts) {
			return false
		}
		for i := range ad.Parts {
			if ad.Parts[i].Raw != bd.Parts[i].Raw || !equalExpr(ad.Parts[i].Expr, bd.Parts[i].Expr) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
