/*
Package lexicon stores a sorted word list as a compact stream of bytecode.

A lexicon has two parts. The metadata holds a table of macros: literal
subwords (usually single letters), inline metadata values, and the control
macros clear and backup(n). The instruction stream is a flat sequence of
varint indices into that table. Replaying the stream fills a buffer with
subwords; a clear or backup(n) emits the buffered word, then either empties
the buffer or drops its last n+1 elements so the next word can reuse the rest
as its prefix. Words are sorted, so adjacent words tend to share long prefixes
and most words cost only a few bytes.

A subroutine macro holds an instruction stream of its own that is expanded in
place. Subroutines may call each other but never recursively; a lexicon whose
subroutines form a cycle is rejected when it is opened.

The compiler forces a clear every ClearInterval bytes or so. Nothing is shared
across a clear, which lets the reader binary search the raw instruction bytes:
it jumps to an offset, skips to the next clear and decodes a complete word
from there. Lookups cost a logarithmic number of probes plus a linear scan of
one block.

Words are split into subwords by grapheme cluster. An alphabet may declare
letters made of several characters ("ll", "ch") and fixes their sort order.
Sortalike groups ("e", "é", "è") make letters sort as one; words that differ
only within a group are stored once as the canonical base word, and the choice
of variants of every original spelling is packed into one integer kept as word
metadata.

In general, to use it you call Compile with the words and a Config, which
returns a Lexicon. The order of the input does not matter and duplicates are
dropped. Save or Marshal the lexicon, then open it with Load or New to get a
WordList, which answers Has, Get and IterateFrom queries and iterates over all
entries with All.

If the words are already sorted and deduplicated, a Compiler can be fed
directly with Add and Finish. This is also the way to attach metadata to
words and subwords.
*/
package lexicon
