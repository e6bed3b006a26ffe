package attribution

import "github.com/prannavdeshpande/second-brain/internal/schema"

// Attribute collapses a relevance-ranked list of retrieved chunks into the
// smallest ordered set of distinct origin documents backing an answer.
// Identity is the chunk's archive locator when present, else its source;
// the first occurrence of each identity wins, so citation order matches
// retrieval relevance order.
func Attribute(ranked []schema.Chunk) []schema.SourceInfo {
	seen := make(map[string]struct{}, len(ranked))
	citations := make([]schema.SourceInfo, 0, len(ranked))

	for _, chunk := range ranked {
		identity := chunk.Meta.DocumentIdentity()
		if identity == "" {
			continue
		}
		if _, ok := seen[identity]; ok {
			continue
		}
		seen[identity] = struct{}{}

		filename := chunk.Meta.Filename
		if filename == "" {
			filename = chunk.Meta.Source
		}
		citations = append(citations, schema.SourceInfo{
			ArchiveLocator: chunk.Meta.ArchiveLocator,
			Filename:       filename,
			FileType:       chunk.Meta.FileType,
			Source:         chunk.Meta.Source,
			ContentKind:    chunk.Meta.ContentKind,
		})
	}
	return citations
}
