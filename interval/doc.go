/*Package interval finds, for a genomic position, the record of a sorted
  flat-text interval database ("name chromosome start end" per line) that
  contains it.
  The database is never loaded or indexed. A Cursor reads it forward line by
  line and steps backward by raw byte offsets, and a Search combines the two
  so that a stream of (mostly) sorted queries reads the file about once.
*/
package interval
