// Package boardconfig loads and saves the board configuration: the width,
// height and mine count of the last game, stored as "<width> <height> <mines>"
// in a per-user text file.
//
// Loading never fails because of the file's content. A missing file is
// created empty and, like an empty or unparsable one, yields the Easy
// defaults (10, 10, 9). Only I/O errors such as permission failures are
// returned to the caller.
package boardconfig
