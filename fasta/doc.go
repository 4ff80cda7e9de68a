/*
Package fasta provides routines for reading and writing FASTA files. Routines
are also provided to read and write aligned fasta files. Sequences are read
into and written from seq.Sequence values; the header line is the name of a
sequence.

The format used is the one described by NCBI:
http://blast.ncbi.nlm.nih.gov/blastcgihelp.shtml

By default, sequences are checked to make sure they contain only valid
characters: a-z, A-Z, * and -. All lowercases letters are translated to their
upper case equivalent.
*/
package fasta
