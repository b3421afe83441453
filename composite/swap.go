package composite

import (
	"github.com/JeffersonLab/evio-sub004/bytesio"
	"github.com/JeffersonLab/evio-sub004/endian"
)

// SwapAll walks items over src (wordLen*4 bytes, or len(src) if wordLen <=
// 0) and writes the byte-order-swapped equivalent to dst. src and dst may
// be the same slice for an in-place swap.
//
// Composite data is always big-endian on disk: toLocal=true swaps
// big-endian src into the host's native order, toLocal=false swaps native
// src back into big-endian for writing.
func SwapAll(items []Item, src, dst []byte, wordLen int, toLocal bool) error {
	srcOrder, dstOrder := swapOrders(toLocal)

	srcCur := bytesio.NewCursor(src, srcOrder)
	if wordLen > 0 && wordLen*4 <= len(src) {
		if err := srcCur.SetLimit(wordLen * 4); err != nil {
			return err
		}
	}

	values, err := Decode(items, srcCur)
	if err != nil {
		return err
	}

	dstCur := bytesio.NewCursor(dst, dstOrder)

	return Encode(items, values, dstCur)
}

func swapOrders(toLocal bool) (src, dst endian.EndianEngine) {
	local := endian.GetBigEndianEngine()
	if endian.IsNativeLittleEndian() {
		local = endian.GetLittleEndianEngine()
	}

	if toLocal {
		return endian.GetBigEndianEngine(), local
	}

	return local, endian.GetBigEndianEngine()
}
