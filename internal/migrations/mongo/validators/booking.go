package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"email",
			"treatment",
			"appointmentDate",
			"slot",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},

			"treatment": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			// Verbatim-matched string, never a BSON date: the resolver
			// compares it textually against the caller's query.
			"appointmentDate": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"slot": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}
