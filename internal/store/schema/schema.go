package schema

// Models returns every model managed by the store, in migration order
func Models() []interface{} {
	return []interface{}{
		&KeyValueStore{},
		&LedgerEvent{},
		&Game{},
		&MetadataVersion{},
		&Purchase{},
		&WebhookClient{},
		&WebhookDelivery{},
	}
}
