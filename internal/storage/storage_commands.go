package storage

import "time"

func (s *Storage) SetCommand(guildID, channelID, channelName, guildName, userID, username, commandName string) error {
	return s.update(guildID, func(rec *Record) {
		rec.CommandsHistory = append(rec.CommandsHistory, CommandHistory{
			ChannelID:   channelID,
			ChannelName: channelName,
			GuildName:   guildName,
			UserID:      userID,
			Username:    username,
			Command:     commandName,
			Datetime:    time.Now(),
		})
	})
}

func (s *Storage) GetCommandsHistory(guildID string) ([]CommandHistory, error) {
	rec, err := s.read(guildID)
	if err != nil {
		return nil, err
	}
	return rec.CommandsHistory, nil
}
