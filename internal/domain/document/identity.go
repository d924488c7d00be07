package document

import "hash/fnv"

// Palette used for collaborator cursors and presence avatars. Mirrors the
// brand colors the editor frontend renders.
var identityColors = []string{
	"#D583F0",
	"#F08385",
	"#F0D885",
	"#85EED6",
	"#85BBF0",
	"#8594F0",
	"#85DBF0",
	"#87EE85",
}

// Identify builds the identity payload handed to the hosted collaboration
// provider. The color is deterministic per user id so every participant
// renders the same collaborator colors.
func Identify(id int64, name, email, avatar string) Identity {
	return Identity{
		ID:     id,
		Name:   name,
		Email:  email,
		Avatar: avatar,
		Color:  colorFor(id),
	}
}

func colorFor(id int64) string {
	h := fnv.New32a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(id >> (8 * i))
	}
	h.Write(buf[:])
	return identityColors[int(h.Sum32())%len(identityColors)]
}
