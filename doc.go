// Package pak builds, inspects and mutates pak archives: single-file
// bundles of firmware and hardware image files.
//
// A pak image is a plain sequence of records. File records carry a name,
// a compression method, the decompressed size and the compressed payload.
// Pad records carry only fill bytes and exist to align the record that
// follows them. There is no index or footer; the image size is the sum of
// its record sizes.
//
// # Quick Start
//
// Create an archive and save it:
//
//	a := pak.New("image.pak")
//	if _, err := a.Add("boot/sbe.bin", pak.CompressionZlib, data); err != nil {
//	    return err
//	}
//	if err := a.Save(); err != nil {
//	    return err
//	}
//
// Load an archive and read an entry:
//
//	a, err := pak.Open("image.pak")
//	if err != nil {
//	    return err
//	}
//	found, err := a.Find("boot/*.bin")
//	if err != nil {
//	    return err
//	}
//	for e := range found.All() {
//	    content, err := e.Data()
//	    ...
//	}
//
// # Nested archives
//
// Entries whose name matches the nested pattern (default "*.pak") can be
// expanded in place with [Archive.Flatten]. Their entries are renamed to
// "outer.pak>/inner/name" so the origin stays visible.
//
// # Duplicate names
//
// Adding an entry whose name already exists does not fail. Duplicates are
// resolved when the image is rebuilt: the last entry with a given name wins
// and earlier ones are dropped from the list.
package pak
