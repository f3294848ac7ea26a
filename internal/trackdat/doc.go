// Package trackdat decodes circuit description files (".DAT") of the 1991
// Grand Prix racing simulator.
//
// The files carry no absolute positions. Geometry is stored as a stream of
// relative section records interleaved with variable-length commands, and
// the computer cars' preferred line is a second stream of segments. Both
// streams are addressed through an offsets directory at 0x1000.
//
// FILE LAYOUT (little-endian throughout):
//
//	0x0000      4096 bytes   unused padding
//	0x1000      variable     offsets directory (u16 count + count x u32)
//	offset[0]   variable     horizon data
//	offset[1]   variable     object shapes
//	offset[2]   12 bytes     track header (center x, y, z as i32)
//	offset[3]   variable     track section stream
//	offset[4]   variable     racing line stream
//	offset[5]   variable     computer car setup
//	offset[6]   variable     pit lane stream (track section format)
//	offset[7]   variable     camera commands
//	offset[8]   variable     settings
//	filesize-4  4 bytes      checksum
//
// Each stream is decoded by a sequential state machine over its own Cursor.
// Independent regions are decoded concurrently by Decode; the returned
// TrackDefinition is immutable and safe to share between goroutines.
package trackdat
