/*
NAME
  tables.go

AUTHOR
  dablin-go contributors

LICENSE
  Copyright (C) 2026 the dablin-go contributors.

  This program is free software: you can redistribute it and/or modify
  it under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.
*/

package fic

// The UEP (Unequal Error Protection) lookup tables indexed by the
// 6-bit table index in FIG 0/1's short form: size in capacity units,
// protection level and bitrate in kbit/s. ETSI EN 300 401 table 8.
var uepSizes = [64]int{
	16, 21, 24, 29, 35, 24, 29, 35, 42, 52, 29, 35, 42, 52, 32, 42,
	48, 58, 70, 40, 52, 58, 70, 84, 48, 58, 70, 84, 104, 58, 70, 84,
	104, 64, 84, 96, 116, 140, 80, 104, 116, 140, 168, 96, 116, 140, 168, 208,
	116, 140, 168, 208, 232, 128, 168, 192, 232, 280, 160, 208, 280, 192, 280, 416,
}

var uepPLs = [64]int{
	5, 4, 3, 2, 1, 5, 4, 3, 2, 1, 5, 4, 3, 2, 5, 4,
	3, 2, 1, 5, 4, 3, 2, 1, 5, 4, 3, 2, 1, 5, 4, 3,
	2, 5, 4, 3, 2, 1, 5, 4, 3, 2, 1, 5, 4, 3, 2, 1,
	5, 4, 3, 2, 1, 5, 4, 3, 2, 1, 5, 4, 2, 5, 3, 1,
}

var uepBitrates = [64]int{
	32, 32, 32, 32, 32, 48, 48, 48, 48, 48, 56, 56, 56, 56, 64, 64,
	64, 64, 64, 80, 80, 80, 80, 80, 96, 96, 96, 96, 96, 112, 112, 112,
	112, 128, 128, 128, 128, 128, 160, 160, 160, 160, 160, 192, 192, 192, 192, 192,
	224, 224, 224, 224, 224, 256, 256, 256, 256, 256, 320, 320, 320, 384, 384, 384,
}

// EEP (Equal Error Protection) size factors, indexed by the 2-bit
// protection level field. ETSI EN 300 401 clause 6.2.1.
var eepASizeFactors = [4]int{12, 8, 6, 4}
var eepBSizeFactors = [4]int{27, 21, 18, 15}

// languages0x00to0x2B and languages0x7Fdownto0x45 are the ISO 639
// language name tables FIG 0/5 codes index into (ETSI TS 101 756
// Annex C).
var languages0x00to0x2B = [...]string{
	"unknown/not applicable", "Albanian", "Breton", "Catalan", "Croatian", "Welsh", "Czech", "Danish",
	"German", "English", "Spanish", "Esperanto", "Estonian", "Basque", "Faroese", "French",
	"Frisian", "Irish", "Gaelic", "Galician", "Icelandic", "Italian", "Sami", "Latin",
	"Latvian", "Luxembourgian", "Lithuanian", "Hungarian", "Maltese", "Dutch", "Norwegian", "Occitan",
	"Polish", "Portuguese", "Romanian", "Romansh", "Serbian", "Slovak", "Slovene", "Finnish",
	"Swedish", "Turkish", "Flemish", "Walloon",
}

var languages0x7Fdownto0x45 = [...]string{
	"Amharic", "Arabic", "Armenian", "Assamese", "Azerbaijani", "Bambora", "Belorussian", "Bengali",
	"Bulgarian", "Burmese", "Chinese", "Chuvash", "Dari", "Fulani", "Georgian", "Greek",
	"Gujurati", "Gurani", "Hausa", "Hebrew", "Hindi", "Indonesian", "Japanese", "Kannada",
	"Kazakh", "Khmer", "Korean", "Laotian", "Macedonian", "Malagasay", "Malaysian", "Moldavian",
	"Marathi", "Ndebele", "Nepali", "Oriya", "Papiamento", "Persian", "Punjabi", "Pushtu",
	"Quechua", "Russian", "Rusyn", "Serbo-Croat", "Shona", "Sinhalese", "Somali", "Sranan Tongo",
	"Swahili", "Tadzhik", "Tamil", "Tatar", "Telugu", "Thai", "Ukranian", "Urdu",
	"Uzbek", "Vietnamese", "Zulu",
}

// PTYNameRDS and PTYNameRBDS are the two 30-entry programme-type name
// tables FIG 0/17's international table ID selects between, carried
// over from the original implementation.
var PTYNameRDS = [30]string{
	"No programme type", "News", "Current Affairs", "Information",
	"Sport", "Education", "Drama", "Culture",
	"Science", "Varied", "Pop Music", "Rock Music",
	"Easy Listening Music", "Light Classical", "Serious Classical", "Other Music",
	"Weather/meteorology", "Finance/Business", "Children's programmes", "Social Affairs",
	"Religion", "Phone In", "Travel", "Leisure",
	"Jazz Music", "Country Music", "National Music", "Oldies Music",
	"Folk Music", "Documentary",
}

var PTYNameRBDS = [30]string{
	"No program type", "News", "Information", "Sports",
	"Talk", "Rock", "Classic Rock", "Adult Hits",
	"Soft Rock", "Top 40", "Country", "Oldies",
	"Soft", "Nostalgia", "Jazz", "Classical",
	"Rhythm and Blues", "Soft Rhythm and Blues", "Foreign Language", "Religious Music",
	"Religious Talk", "Personality", "Public", "College",
	"(rfu)", "(rfu)", "(rfu)", "(rfu)",
	"(rfu)", "Weather",
}

// asuTypeNames are the FIG 0/18/0/19 announcement-support type names,
// indexed 0-10.
var asuTypeNames = [...]string{
	"Alarm", "Road Traffic flash", "Transport flash", "Warning/Service",
	"News flash", "Area weather flash", "Event announcement", "Special event",
	"Programme Information", "Sport report", "Financial report",
}
