package tts

// BaselineVoice is the default prebuilt voice for unmapped tags.
const BaselineVoice = "Kore"

// TransliterationTag is the reserved language tag for romanized script. It
// is pinned to the baseline voice no matter what its nominal locale says, so
// romanized text is read with English pronunciation.
const TransliterationTag = "ur-ro"

// voiceMap translates requested locale/voice tags to the synthesizer's
// prebuilt voice identifiers.
var voiceMap = map[string]string{
	"en-IN": "Kore",
	"hi-IN": "Zephyr",
	"ur-IN": "Puck",
	"te-IN": "Fenrir",
	"en-US": "Kore",
}

// VoiceFor resolves a locale/voice tag to a synthesizer voice.
func VoiceFor(tag string) string {
	if tag == TransliterationTag {
		return BaselineVoice
	}
	if v, ok := voiceMap[tag]; ok {
		return v
	}
	return BaselineVoice
}
