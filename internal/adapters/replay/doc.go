// Package replay stores camera frames in a compressed recording and plays
// them back as a frame source.
//
// A recording is a zstd stream holding a sequence of CBOR items: one Header
// followed by one Record per frame. Records keep the row stride padding of
// the capturing device so playback exercises the same packing path as a
// live camera.
package replay
