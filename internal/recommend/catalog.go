// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package recommend

import "github.com/tomtom215/songrec/internal/models"

// fallbackCatalog is served when the remote recommender is unreachable.
var fallbackCatalog = []models.Song{
	{Title: "Bheegi Bheegi Raaton Mein", Artist: "Kishore Kumar", ReleaseYear: "1981"},
	{Title: "Aap Ki Ankhon Mein Kuch", Artist: "Lata Mangeshkar", ReleaseYear: "1972"},
	{Title: "Tum Aa Gaye Ho Noor Aa Gaya", Artist: "Mohammad Rafi", ReleaseYear: "1975"},
	{Title: "Hamen Tumse Pyar Kitna", Artist: "Kishore Kumar", ReleaseYear: "1981"},
	{Title: "Tere Bina Zindagi Se", Artist: "Lata Mangeshkar", ReleaseYear: "1975"},
	{Title: "Ek Ajnabee Haseena Se", Artist: "Kishore Kumar", ReleaseYear: "1971"},
	{Title: "Chura Liya Hai Tumne Jo Dil Ko", Artist: "Mohammad Rafi", ReleaseYear: "1973"},
	{Title: "Pyar Deewana Hota Hai", Artist: "Kishore Kumar", ReleaseYear: "1992"},
	{Title: "Tujhse Naraz Nahi Zindagi", Artist: "Lata Mangeshkar", ReleaseYear: "1983"},
	{Title: "Kabhi Kabhie Mere Dil Mein", Artist: "Mukesh", ReleaseYear: "1976"},
	{Title: "Ye Jo Vaada Kiya", Artist: "Rajesh Roshan", ReleaseYear: "1982"},
	{Title: "Dil Deewana Bin Sajna Ke", Artist: "Mohammed Rafi", ReleaseYear: "1968"},
	{Title: "Main Pal Do Pal Ka Shayar Hoon", Artist: "Mukesh", ReleaseYear: "1976"},
	{Title: "Rim Jhim Gire Sawan", Artist: "Kishore Kumar", ReleaseYear: "1979"},
	{Title: "Lag Jaa Gale", Artist: "Lata Mangeshkar", ReleaseYear: "1964"},
}

// curatedEntry maps a seed title to a hand-picked recommendation list.
type curatedEntry struct {
	key   string
	songs []models.Song
}

// curatedTable is consulted in order; the first matching key wins.
var curatedTable = []curatedEntry{
	{
		key: "Ek Ajnabee Haseena Se",
		songs: []models.Song{
			{Title: "Pyar Deewana Hota Hai", Artist: "Kishore Kumar", ReleaseYear: "1992"},
			{Title: "Hamen Tumse Pyar Kitna", Artist: "Kishore Kumar", ReleaseYear: "1981"},
			{Title: "Bheegi Bheegi Raaton Mein", Artist: "Kishore Kumar", ReleaseYear: "1981"},
			{Title: "Main Pal Do Pal Ka Shayar Hoon", Artist: "Mukesh", ReleaseYear: "1976"},
			{Title: "Ye Jo Vaada Kiya", Artist: "Rajesh Roshan", ReleaseYear: "1982"},
		},
	},
	{
		key: "Chura Liya Hai Tumne Jo Dil Ko",
		songs: []models.Song{
			{Title: "Tum Aa Gaye Ho Noor Aa Gaya", Artist: "Mohammad Rafi", ReleaseYear: "1975"},
			{Title: "Aap Ki Ankhon Mein Kuch", Artist: "Lata Mangeshkar", ReleaseYear: "1972"},
			{Title: "Lag Jaa Gale", Artist: "Lata Mangeshkar", ReleaseYear: "1964"},
			{Title: "Dil Deewana Bin Sajna Ke", Artist: "Mohammed Rafi", ReleaseYear: "1968"},
			{Title: "Rim Jhim Gire Sawan", Artist: "Kishore Kumar", ReleaseYear: "1979"},
		},
	},
}

// FallbackCatalog returns a copy of the built-in 15-song catalog.
func FallbackCatalog() []models.Song {
	return cloneSongs(fallbackCatalog)
}

// ExampleTitles returns the seed titles named in not-found messages.
func ExampleTitles() []string {
	titles := make([]string, len(curatedTable))
	for i, e := range curatedTable {
		titles[i] = e.key
	}
	return titles
}

func cloneSongs(songs []models.Song) []models.Song {
	if songs == nil {
		return nil
	}
	out := make([]models.Song, len(songs))
	copy(out, songs)
	return out
}
