/*
bio-cpgi annotates GFF3 gene models with the CpG islands at their
transcription start sites, and scores islands and genes from methylome,
nucleosome and expression data.

Both the GFF3 input and every database must be sorted by chromosome, then
start. Chromosome names compare with any "chr" prefix removed, numerically
when they are numbers, so "Chr2" sorts before "Chr10" and matches "2".

Sample usage:

  # Islands and genes in one file.
  bio-cpgi overlap -o annotated.gff3 genes_and_islands.gff3.gz

  # Islands in a "name chromosome start end" database.
  bio-cpgi overlap -db islands.txt -o annotated.gff3 genes.gff3

  bio-cpgi score -methylation methylome.txt.gz -o scored.gff3 annotated.gff3
  bio-cpgi cpgisle-to-gff3 cpgisle.out islands.gff3
  bio-cpgi methyl-express genes.txt island_scores.txt
  bio-cpgi run pipeline.toml
*/
package main
