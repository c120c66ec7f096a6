package deepgram

type Voice string

const (
	VoiceThalia  Voice = "aura-2-thalia-en"
	VoiceAsteria Voice = "aura-2-asteria-en"
	VoiceLuna    Voice = "aura-2-luna-en"
	VoiceOrion   Voice = "aura-2-orion-en"
	VoiceArcas   Voice = "aura-2-arcas-en"
)

// DefaultVoice is used when callers have no preference.
const DefaultVoice = VoiceThalia

func AvailableVoices() []Voice {
	return []Voice{
		VoiceThalia,
		VoiceAsteria,
		VoiceLuna,
		VoiceOrion,
		VoiceArcas,
	}
}
