/*Package feature defines the records that flow through the annotation
  pipeline: GFF3 features, composite (pseudo) records grouping a feature with
  its children, and pass-through directive lines.  It also defines Stream, the
  pull contract every stage implements.

  Coordinates are 1-based and closed, as in GFF3.
*/
package feature
