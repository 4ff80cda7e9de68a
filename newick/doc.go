/*
Package newick provides facilities for reading and writing trees in the
Newick format, and for measuring them. The format used is roughly equivalent
to the conventions established here:
http://evolution.genetics.washington.edu/phylip/newick_doc.html. Bracket
delimited comments are ignored, even when nested. Quoted labels are not
implemented.

An informal description of the Newick format can be found here:
http://evolution.genetics.washington.edu/phylip/newicktree.html.

For example:

	((A:0.1,B:0.2,C:0.1)ABCnode:0.2,(D:0.4,E:0.1)99:0.1);

Here ABCnode is the label of an internal node and 99 is the bootstrap value of
another one.

Besides reading and writing, trees can be walked (Parent, Child, Root), and
measured: Depth, Distance between two nodes, and the additive distance Matrix
of all leaves.
*/
package newick
